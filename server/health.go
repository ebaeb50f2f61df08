package server

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"github.com/surafelx/portfolio26/articles"
	"github.com/surafelx/portfolio26/notes"
	"github.com/surafelx/portfolio26/store"
	"github.com/surafelx/portfolio26/utils"
)

type healthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Articles  int64     `json:"articles"`
	Notes     int64     `json:"notes"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// health reports whether the store answers and how much content it holds.
func health(b *store.Backend, arts *articles.Service, ns *notes.Service) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		report := healthReport{Status: "ok", Database: "connected", Timestamp: time.Now().UTC()}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return b.Ping(gctx) })
		g.Go(func() (err error) {
			report.Articles, err = arts.Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			report.Notes, err = ns.Count(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			utils.RespondWithJSON(w, http.StatusServiceUnavailable, healthReport{
				Status:    "error",
				Database:  "disconnected",
				Error:     err.Error(),
				Timestamp: report.Timestamp,
			})
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, report)
	}
}
