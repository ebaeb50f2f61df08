package contact

import (
	"context"
	"mime"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/utils"
)

type Handlers struct {
	svc *Service
	log *logx.Logger
}

func NewHandlers(svc *Service, log *logx.Logger) *Handlers {
	return &Handlers{svc: svc, log: logx.OrNop(log)}
}

// Submit serves POST /api/contact with a JSON or form-encoded body.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sub, err := decodeSubmission(w, r)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	msg, err := h.svc.Submit(ctx, sub)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Message sent successfully",
		"id":      msg.ID,
	})
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) (Submission, error) {
	var sub Submission
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
			return sub, apperr.Invalid("Invalid form body")
		}
		sub.Name = r.FormValue("name")
		sub.Email = r.FormValue("email")
		sub.Message = r.FormValue("message")
		return sub, nil
	default:
		err := utils.DecodeJSON(w, r, &sub)
		return sub, err
	}
}
