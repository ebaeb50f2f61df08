// Package server assembles the application from its configuration and runs
// the HTTP server with its background workers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/surafelx/portfolio26/about"
	"github.com/surafelx/portfolio26/admin"
	"github.com/surafelx/portfolio26/analytics"
	"github.com/surafelx/portfolio26/articles"
	"github.com/surafelx/portfolio26/auth"
	"github.com/surafelx/portfolio26/blocks"
	"github.com/surafelx/portfolio26/config"
	"github.com/surafelx/portfolio26/contact"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/filemgr"
	"github.com/surafelx/portfolio26/live"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/metrics"
	"github.com/surafelx/portfolio26/middleware"
	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/notes"
	"github.com/surafelx/portfolio26/projects"
	"github.com/surafelx/portfolio26/ratelim"
	"github.com/surafelx/portfolio26/rdx"
	"github.com/surafelx/portfolio26/resume"
	"github.com/surafelx/portfolio26/routes"
	"github.com/surafelx/portfolio26/site"
	"github.com/surafelx/portfolio26/store"
	"github.com/surafelx/portfolio26/utils"
)

const (
	tokenTTL        = 12 * time.Hour
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

// App holds every long-lived component of a running server.
type App struct {
	cfg     config.Config
	log     *logx.Logger
	backend *store.Backend
	redis   *redis.Client
	metrics *metrics.Metrics
	bus     *mq.Bus
	hub     *live.Hub
	tracker *analytics.Tracker
	strict  *ratelim.RateLimiter
	loose   *ratelim.RateLimiter
	handler http.Handler
}

// New connects the stores and wires the handlers. Redis is optional: when
// REDIS_URL is empty or unreachable the cache, bus and view buffer run in
// process.
func New(ctx context.Context, cfg config.Config, log *logx.Logger) (*App, error) {
	log = logx.OrNop(log)
	if cfg.AdminPasswordHash == "" || len(cfg.JWTSecret) == 0 {
		log.Warn("admin login disabled: set ADMIN_PASSWORD_HASH and JWT_SECRET")
	}

	proxies, err := utils.ParseProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	backend, err := OpenBackend(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	rdb, err := rdx.Connect(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, running without cache", "error", err)
		rdb = nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	a := &App{
		cfg:     cfg,
		log:     log,
		backend: backend,
		redis:   rdb,
		metrics: m,
		bus:     mq.NewBus(rdb, log),
		hub:     live.NewHub(log),
		strict:  ratelim.NewRateLimiter(cfg.ContactRatePerMinute, cfg.ContactRatePerMinute).TrustProxies(proxies),
		loose:   ratelim.NewRateLimiter(120, 30).TrustProxies(proxies),
	}
	a.hub.Relay(a.bus)

	a.tracker = analytics.NewTracker(backend.Events, a.bus, m, log)
	if buf := rdx.NewViewBuffer(rdb); buf != nil {
		a.tracker.WithBuffer(buf)
	}

	a.handler, err = a.routes()
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) routes() (http.Handler, error) {
	cfg, log := a.cfg, a.log
	deps := content.Deps{
		Cache:   rdx.NewCache(a.redis, cfg.CacheTTL, log, a.metrics),
		Bus:     a.bus,
		Metrics: a.metrics,
		Log:     log,
	}
	projectSvc := projects.NewService(a.backend.Projects, deps)
	articleSvc := articles.NewService(a.backend.Articles, deps)
	noteSvc := notes.NewService(a.backend.Notes, deps)
	aboutSvc := about.NewService(a.backend.About, deps)
	contactSvc := contact.NewService(a.backend.Contacts, a.bus, a.metrics, log)

	var probe blocks.Probe
	if cfg.ImageProbe {
		probe = blocks.NewHTTPProbe(cfg.PublicBaseURL, 3*time.Second, 10*time.Minute)
	}
	pages, err := site.New(site.Services{
		Projects: projectSvc,
		Articles: articleSvc,
		Notes:    noteSvc,
		About:    aboutSvc,
		Contact:  contactSvc,
		Tracker:  a.tracker,
	}, site.Options{
		ShowSampleContent: cfg.ShowSampleContent,
		Renderer:          blocks.NewRenderer(cfg.ImageFallbackText, probe),
		Log:               log,
	})
	if err != nil {
		return nil, err
	}

	guard := middleware.NewAuth(cfg.JWTSecret, tokenTTL)
	files := filemgr.NewStore(cfg.UploadDir, "/static/uploads", log)

	router := httprouter.New()
	router.GET("/health", health(a.backend, articleSvc, noteSvc))
	router.Handler(http.MethodGet, "/metrics", a.metrics.Handler())

	routes.AddStaticRoutes(router, cfg.UploadDir)
	routes.AddSiteRoutes(router, pages, a.strict)
	routes.AddAuthRoutes(router, auth.NewHandlers(guard, cfg.AdminUsername, cfg.AdminPasswordHash, log), guard, a.strict)
	routes.AddProjectRoutes(router, projects.NewHandlers(projectSvc, log), guard)
	routes.AddArticleRoutes(router, articles.NewHandlers(articleSvc, log), guard)
	routes.AddNoteRoutes(router, notes.NewHandlers(noteSvc, log), guard)
	routes.AddAboutRoutes(router, about.NewHandlers(aboutSvc, log), resume.NewHandlers(aboutSvc, cfg.PublicBaseURL, log), guard)
	routes.AddContactRoutes(router, contact.NewHandlers(contactSvc, log), a.strict)
	routes.AddAdminRoutes(router, admin.NewHandlers(contactSvc, log), guard)
	routes.AddAnalyticsRoutes(router, analytics.NewHandlers(a.tracker, log), guard, a.loose)
	routes.AddUploadRoutes(router, files, a.bus, guard)
	routes.AddLiveRoutes(router, a.hub, guard)

	// outermost first: logging → security headers → CORS → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Total-Count"},
	}).Handler(router)

	return requestLogger(log, a.metrics, securityHeaders(cfg.Production(), corsHandler)), nil
}

// Handler returns the fully wrapped router.
func (a *App) Handler() http.Handler { return a.handler }

// Run serves until ctx ends, then shuts down gracefully: in-flight requests
// finish, buffered views are flushed and the stores are closed.
func (a *App) Run(ctx context.Context) error {
	workers, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	spawn := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	spawn(a.hub.Run)
	spawn(func() { a.bus.Run(workers) })
	spawn(func() { a.tracker.RunFlusher(workers, a.cfg.ViewFlushInterval) })
	spawn(func() { a.strict.Run(sweepInterval, workers.Done()) })
	spawn(func() { a.loose.Run(sweepInterval, workers.Done()) })

	server := &http.Server{
		Addr:              a.cfg.Port,
		Handler:           a.handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}
	server.RegisterOnShutdown(a.hub.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", "addr", a.cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		a.log.Info("shutdown signal received; shutting down gracefully")
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		a.log.Error("graceful shutdown failed", "error", err)
	}
	a.hub.Stop()
	stop()
	wg.Wait()
	a.tracker.Wait()
	a.Close(sctx)

	a.log.Info("server stopped cleanly")
	return serveErr
}

// Close releases the store and Redis connections.
func (a *App) Close(ctx context.Context) {
	if err := a.backend.Close(ctx); err != nil {
		a.log.Warn("store close failed", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("redis close failed", "error", err)
		}
	}
}
