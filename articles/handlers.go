package articles

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/blocks"
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

// List serves GET /api/articles?search=&tag=&page=&limit=
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

// Get answers 404 with the ids that do exist, to help clients with stale links.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	id := ps.ByName("id")
	a, err := h.svc.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		available := []models.ContentLink{}
		if all, lerr := h.svc.List(ctx); lerr == nil {
			for _, x := range all {
				available = append(available, x.Summary())
			}
		}
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{
			"error":             "Article not found",
			"requestedId":       id,
			"availableArticles": available,
		})
		return
	}
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Article
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.svc.Create(ctx, in)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, a)
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var p models.ArticlePatch
	if err := utils.DecodeJSON(w, r, &p); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.svc.Update(ctx, ps.ByName("id"), p)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
}

type blockOps struct {
	Ops []blocks.Op `json:"ops"`
}

// EditBlocks serves PATCH /api/articles/:id/blocks.
func (h *Handlers) EditBlocks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body blockOps
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	a, err := h.svc.EditBlocks(ctx, ps.ByName("id"), body.Ops)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, a)
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

// BlockKinds lists the block kinds the editor may offer, with their fields
// and default metadata.
func (h *Handlers) BlockKinds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, blocks.Describe(blocks.ArticleKinds))
}
