package resume

import (
	"context"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/about"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
)

type Handlers struct {
	about   *about.Service
	siteURL string
	log     *logx.Logger
}

func NewHandlers(svc *about.Service, siteURL string, log *logx.Logger) *Handlers {
	return &Handlers{about: svc, siteURL: siteURL, log: logx.OrNop(log)}
}

// PDF serves GET /api/about/resume.pdf.
func (h *Handlers) PDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.about.Get(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	doc, err := PDF(a, h.siteURL)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="resume.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// VCard serves GET /api/about/vcard.png.
func (h *Handlers) VCard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.about.Get(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	png, err := VCardQR(a, h.siteURL)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
