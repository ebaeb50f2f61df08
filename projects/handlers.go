package projects

import (
	"context"
	"net/http"
	"strconv"

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

func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	all, err := h.svc.List(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	q := utils.ParseQueryOptions(r)
	matched := Filter(all, q.Search, q.Tag)
	w.Header().Set("X-Total-Count", strconv.Itoa(len(matched)))
	utils.RespondWithJSON(w, http.StatusOK, utils.Paginate(matched, q))
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	p, err := h.svc.Get(ctx, ps.ByName("id"))
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Project
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	p, err := h.svc.Create(ctx, in)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch models.ProjectPatch
	if err := utils.DecodeJSON(w, r, &patch); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	p, err := h.svc.Update(ctx, ps.ByName("id"), patch)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, ps.ByName("id")); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
