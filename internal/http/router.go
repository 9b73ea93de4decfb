// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, authentication, and rate limiting.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - One error shape everywhere, rendered by the taxonomy mapper
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"

	"github.com/arielbeck/go-halakha-backend/internal/adapters/ai"
	"github.com/arielbeck/go-halakha-backend/internal/adapters/publish"
	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/config"
	"github.com/arielbeck/go-halakha-backend/internal/http/handlers"
	"github.com/arielbeck/go-halakha-backend/internal/http/middleware"
	"github.com/arielbeck/go-halakha-backend/internal/provider"
	"github.com/arielbeck/go-halakha-backend/internal/services"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip
//  6. Metrics and /metrics endpoint
//  7. CORS and security headers
//  8. Error mapper: one kind→status/code table for the whole surface
//
// /health, /metrics and /swagger stay outside the authenticated, rate-limited
// group so probes and dashboards keep working when the API key rotates.
func RegisterRoutes(r *gin.Engine, p *provider.Provider, cfg config.Config) error {
	r.HandleMethodNotAllowed = true

	db, err := p.DB()
	if err != nil {
		return err
	}

	// 1) Trace all HTTP requests
	if cfg.OTEL.Enabled {
		r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	}

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging (credentials are never among the logged fields)
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB) and response compression
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-API-Key", "Idempotency-Key"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 8) Taxonomy error rendering
	r.Use(middleware.ErrorMapper())

	// Fallbacks go through the same mapper.
	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("route", ""))
	})
	r.NoMethod(func(c *gin.Context) {
		middleware.Envelope(c, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		c.Abort()
	})

	// Liveness/health (outside auth)
	health := &handlers.HealthHandler{Provider: p, ProbeTimeout: cfg.HealthProbePeriod}
	r.GET("/health", health.Health)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← provider/config
	halakhaSvc := &services.HalakhaService{
		DB:              db,
		MaxContentRunes: cfg.MaxContentRunes,
		TitleLocale:     language.French,
	}
	sourceSvc := &services.SourceService{DB: db}
	tagSvc := &services.TagService{DB: db}
	themeSvc := &services.ThemeService{DB: db}

	procSvc := &services.ProcessingService{
		DB:              db,
		Generator:       lazyGenerator{p},
		Publisher:       lazyPublisher{p},
		MaxContentRunes: cfg.MaxContentRunes,
		RecordTTL:       cfg.PublishRecordTTL,
		ScheduleDays:    1,
	}

	hh := &handlers.HalakhaHandler{Svc: halakhaSvc}
	sh := &handlers.SourceHandler{Svc: sourceSvc}
	th := &handlers.TagHandler{Svc: tagSvc}
	mh := &handlers.ThemeHandler{Svc: themeSvc}
	ph := &handlers.ProcessingHandler{Svc: procSvc}

	// Public API: authenticated and rate limited
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.APIKeyAuth(cfg.APIKey))
	api.Use(rl.Handler())
	{
		// Halakhot
		api.POST("/halakhot", hh.Create)
		api.GET("/halakhot", hh.List)
		api.GET("/halakhot/:id", hh.Get)
		api.PUT("/halakhot/:id", hh.Update)
		api.PATCH("/halakhot/:id", hh.Update)
		api.DELETE("/halakhot/:id", hh.Delete)
		api.POST("/halakhot/:id/process", ph.ProcessExisting)
		api.POST("/halakhot/:id/publish", ph.Publish)

		// Processing pipeline
		api.POST("/process", ph.Process)

		// Sources
		api.POST("/sources", sh.Create)
		api.GET("/sources", sh.List)
		api.GET("/sources/:id", sh.Get)
		api.PUT("/sources/:id", sh.Update)
		api.PATCH("/sources/:id", sh.Update)
		api.DELETE("/sources/:id", sh.Delete)
		api.GET("/sources/:id/halakhot", sh.Halakhot)

		// Tags
		api.POST("/tags", th.Create)
		api.GET("/tags", th.List)
		api.GET("/tags/:id", th.Get)
		api.PUT("/tags/:id", th.Update)
		api.PATCH("/tags/:id", th.Update)
		api.DELETE("/tags/:id", th.Delete)
		api.GET("/tags/:id/halakhot", th.Halakhot)

		// Themes
		api.POST("/themes", mh.Create)
		api.GET("/themes", mh.List)
		api.GET("/themes/:id", mh.Get)
		api.PUT("/themes/:id", mh.Update)
		api.PATCH("/themes/:id", mh.Update)
		api.DELETE("/themes/:id", mh.Delete)
		api.GET("/themes/:id/halakhot", mh.Halakhot)
	}

	return nil
}

// lazyGenerator defers AI adapter construction to first use so a missing
// key degrades the pipeline endpoints instead of preventing startup.
type lazyGenerator struct{ p *provider.Provider }

func (l lazyGenerator) Generate(ctx context.Context, raw string, opts ai.Options) (*ai.StructuredResult, error) {
	g, err := l.p.Generator(ctx)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, raw, opts)
}

func (l lazyGenerator) Ping(ctx context.Context) error {
	g, err := l.p.Generator(ctx)
	if err != nil {
		return err
	}
	return g.Ping(ctx)
}

// lazyPublisher mirrors lazyGenerator for the publishing adapter.
type lazyPublisher struct{ p *provider.Provider }

func (l lazyPublisher) Publish(ctx context.Context, page publish.Page) (string, error) {
	pub, err := l.p.Publisher()
	if err != nil {
		return "", err
	}
	return pub.Publish(ctx, page)
}

func (l lazyPublisher) Ping(ctx context.Context) error {
	pub, err := l.p.Publisher()
	if err != nil {
		return err
	}
	return pub.Ping(ctx)
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversize bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
