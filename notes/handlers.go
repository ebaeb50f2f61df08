package notes

import (
	"context"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

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

// List serves GET /api/notes?search=&page=&limit=
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	all, err := h.svc.List(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	q := utils.ParseQueryOptions(r)
	matched := Filter(all, q.Search)
	w.Header().Set("X-Total-Count", strconv.Itoa(len(matched)))
	utils.RespondWithJSON(w, http.StatusOK, utils.Paginate(matched, q))
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	n, err := h.svc.Get(ctx, ps.ByName("id"))
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Note
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	n, err := h.svc.Create(ctx, in)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, n)
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var p models.NotePatch
	if err := utils.DecodeJSON(w, r, &p); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	n, err := h.svc.Update(ctx, ps.ByName("id"), p)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
}

// EditBlocks serves PATCH /api/notes/:id/blocks.
func (h *Handlers) EditBlocks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Ops []blocks.Op `json:"ops"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	n, err := h.svc.EditBlocks(ctx, ps.ByName("id"), body.Ops)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, n)
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

// Filter keeps notes whose title or text blocks mention search.
func Filter(all []models.Note, search string) []models.Note {
	if search == "" {
		return all
	}
	out := make([]models.Note, 0, len(all))
	for _, n := range all {
		if utils.ContainsIgnoreCase(n.Title, search) || mentions(n.Blocks, search) {
			out = append(out, n)
		}
	}
	return out
}

func mentions(seq []blocks.Block, search string) bool {
	for _, b := range seq {
		if utils.ContainsIgnoreCase(b.Content, search) {
			return true
		}
	}
	return false
}

// BlockKinds lists the block kinds the editor may offer, with their fields
// and default metadata.
func (h *Handlers) BlockKinds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, blocks.Describe(blocks.NoteKinds))
}
