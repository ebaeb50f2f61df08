// Package routes registers every endpoint on the router.
package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/about"
	"github.com/surafelx/portfolio26/admin"
	"github.com/surafelx/portfolio26/analytics"
	"github.com/surafelx/portfolio26/articles"
	"github.com/surafelx/portfolio26/auth"
	"github.com/surafelx/portfolio26/contact"
	"github.com/surafelx/portfolio26/filemgr"
	"github.com/surafelx/portfolio26/live"
	"github.com/surafelx/portfolio26/middleware"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/notes"
	"github.com/surafelx/portfolio26/projects"
	"github.com/surafelx/portfolio26/ratelim"
	"github.com/surafelx/portfolio26/resume"
	"github.com/surafelx/portfolio26/site"
)

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddSiteRoutes(router *httprouter.Router, s *site.Site, rl *ratelim.RateLimiter) {
	router.GET("/", s.Home)
	router.GET("/about", s.About)
	router.GET("/notes", s.Notes)
	router.GET("/notes/:id", s.Note)
	router.GET("/articles/:id", s.Article)
	router.GET("/projects/:id", s.Project)
	router.GET("/contact", s.ContactForm)
	router.POST("/contact", rl.Limit(s.ContactSubmit))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.GET("/api/auth/me", a.Authenticate(h.Me))
}

func AddProjectRoutes(router *httprouter.Router, h *projects.Handlers, a *middleware.Auth) {
	router.GET("/api/projects", h.List)
	router.GET("/api/projects/:id", h.Get)
	router.POST("/api/projects", a.Authenticate(h.Create))
	router.PUT("/api/projects/:id", a.Authenticate(h.Update))
	router.DELETE("/api/projects/:id", a.Authenticate(h.Delete))
}

func AddArticleRoutes(router *httprouter.Router, h *articles.Handlers, a *middleware.Auth) {
	router.GET("/api/articles", h.List)
	router.GET("/api/articles/:id", h.Get)
	router.POST("/api/articles", a.Authenticate(h.Create))
	router.PUT("/api/articles/:id", a.Authenticate(h.Update))
	router.PATCH("/api/articles/:id/blocks", a.Authenticate(h.EditBlocks))
	router.DELETE("/api/articles/:id", a.Authenticate(h.Delete))
	router.GET("/api/block-kinds/articles", a.Authenticate(h.BlockKinds))
}

func AddNoteRoutes(router *httprouter.Router, h *notes.Handlers, a *middleware.Auth) {
	router.GET("/api/notes", h.List)
	router.GET("/api/notes/:id", h.Get)
	router.POST("/api/notes", a.Authenticate(h.Create))
	router.PUT("/api/notes/:id", a.Authenticate(h.Update))
	router.PATCH("/api/notes/:id/blocks", a.Authenticate(h.EditBlocks))
	router.DELETE("/api/notes/:id", a.Authenticate(h.Delete))
	router.GET("/api/block-kinds/notes", a.Authenticate(h.BlockKinds))
}

func AddAboutRoutes(router *httprouter.Router, h *about.Handlers, r *resume.Handlers, a *middleware.Auth) {
	router.GET("/api/about", h.Get)
	router.PUT("/api/about", a.Authenticate(h.Update))
	router.GET("/api/about/resume.pdf", r.PDF)
	router.GET("/api/about/vcard.png", r.VCard)
}

func AddContactRoutes(router *httprouter.Router, h *contact.Handlers, rl *ratelim.RateLimiter) {
	router.POST("/api/contact", rl.Limit(h.Submit))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handlers, a *middleware.Auth) {
	router.GET("/api/admin/contacts", a.Authenticate(h.GetContacts))
	router.PUT("/api/admin/contacts/:id/read", a.Authenticate(h.MarkContactRead))
}

func AddAnalyticsRoutes(router *httprouter.Router, h *analytics.Handlers, a *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/analytics/visits", rl.Limit(h.RecordVisit))
	router.POST("/api/analytics/project-views", rl.Limit(h.RecordView(models.SubjectProject)))
	router.POST("/api/analytics/article-views", rl.Limit(h.RecordView(models.SubjectArticle)))
	router.POST("/api/analytics/note-views", rl.Limit(h.RecordView(models.SubjectNote)))
	router.GET("/api/analytics", a.Authenticate(h.Dashboard))
	router.GET("/api/analytics/stats/:subject", a.Authenticate(h.Aggregate))
}

func AddUploadRoutes(router *httprouter.Router, files *filemgr.Store, bus *mq.Bus, a *middleware.Auth) {
	router.POST("/api/uploads/:entity", a.Authenticate(files.UploadHandler(bus)))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub, a *middleware.Auth) {
	router.GET("/api/live/:room", live.WebSocketHandler(hub, a))
}
