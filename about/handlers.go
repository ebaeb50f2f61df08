package about

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/utils"
)

type Handlers struct {
	svc *Service
	log *logx.Logger
}

func NewHandlers(svc *Service, log *logx.Logger) *Handlers {
	return &Handlers{svc: svc, log: logx.OrNop(log)}
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.svc.Get(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p models.AboutPatch
	if err := utils.DecodeJSON(w, r, &p); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.svc.Update(ctx, p)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}
