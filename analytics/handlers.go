package analytics

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/utils"
)

type Handlers struct {
	tracker *Tracker
	log     *logx.Logger
}

func NewHandlers(t *Tracker, log *logx.Logger) *Handlers {
	return &Handlers{tracker: t, log: logx.OrNop(log)}
}

// RecordVisit serves POST /api/analytics/visits. The body may carry the ip
// and user agent; request headers fill in whatever it omits.
func (h *Handlers) RecordVisit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		IP        string `json:"ip"`
		UserAgent string `json:"userAgent"`
	}
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(w, r, &body); err != nil {
			content.Fail(w, r, h.log, err)
			return
		}
	}
	c := Client{IP: body.IP, UserAgent: body.UserAgent}
	if c.IP == "" {
		c.IP = utils.ClientIP(r)
	}
	if c.UserAgent == "" {
		c.UserAgent = r.UserAgent()
	}
	h.record(w, r, models.SubjectVisit, "", c)
}

// RecordView returns the handler for POST /api/analytics/<subject>-views.
func (h *Handlers) RecordView(subject models.Subject) httprouter.Handle {
	field := subject.Field()
	missing := idRequired(subject)
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var body map[string]interface{}
		if err := utils.DecodeJSON(w, r, &body); err != nil {
			content.Fail(w, r, h.log, err)
			return
		}
		id, _ := body[field].(string)
		if id == "" {
			content.Fail(w, r, h.log, apperr.Invalid(missing))
			return
		}
		h.record(w, r, subject, id, Client{IP: utils.ClientIP(r), UserAgent: r.UserAgent()})
	}
}

func idRequired(s models.Subject) string {
	switch s {
	case models.SubjectProject:
		return "Project ID required"
	case models.SubjectArticle:
		return "Article ID required"
	case models.SubjectNote:
		return "Note ID required"
	}
	return "ID required"
}

func (h *Handlers) record(w http.ResponseWriter, r *http.Request, s models.Subject, id string, c Client) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	ev, err := h.tracker.Record(ctx, s, id, c)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, ev)
}

// Dashboard serves GET /api/analytics.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	d, err := h.tracker.Dashboard(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d)
}

// Aggregate serves GET /api/analytics/stats/:subject.
func (h *Handlers) Aggregate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s := models.Subject(ps.ByName("subject"))
	if !s.Valid() || s == models.SubjectVisit {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown subject")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	counts, err := h.tracker.Aggregate(ctx, s)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, counts)
}
