// Package httpapi wires the HTTP transport (Gin) to the badge services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, caller identity, logging/redaction, panic
// recovery, metrics, CORS, security headers, compression, and rate limiting.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/BooManLag/trippit-app-sub000/internal/cache"
	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/config"
	"github.com/BooManLag/trippit-app-sub000/internal/http/handlers"
	"github.com/BooManLag/trippit-app-sub000/internal/http/middleware"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
	"github.com/BooManLag/trippit-app-sub000/internal/services"
)

// Services bundles the badge services served over HTTP.
type Services struct {
	Badges     *services.BadgeService
	Dispatcher *services.Dispatcher
}

// NewServices builds the read service and the dispatcher over db. Source
// reads are retried per cfg.Badges; c may be nil to disable caching.
func NewServices(db *gorm.DB, cat *catalog.Catalog, c cache.Cache, cfg config.Config) Services {
	if c == nil {
		c = cache.Nop{}
	}
	policy := services.DefaultRetryPolicy
	policy.MaxRetries = cfg.Badges.SourceMaxRetries

	disp := services.NewDispatcher(db, cat, services.WithRetry(repo.Sources{DB: db}, policy), c, nil)
	if cfg.Badges.EvalTimeout > 0 {
		disp.Timeout = cfg.Badges.EvalTimeout
	}
	return Services{
		Badges:     services.NewBadgeService(db, cat, c, cfg.Cache.TTL),
		Dispatcher: disp,
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the versioned API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Identity: resolve the acting user
//  4. RedactingLogger: structured logs with PII scrubbing, request logger on ctx
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Metrics
//  8. Rate limiter (per user/IP; health and metrics exempt)
//  9. CORS, security headers, gzip
func RegisterRoutes(r *gin.Engine, svc Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Identity())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())

	// Trigger endpoints take no body; 64 KiB is generous.
	r.Use(limitBody(64 << 10))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).
		Skip("/health", "/metrics")
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// /metrics is already compressed by promhttp.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h := handlers.New(svc.Badges, svc.Dispatcher)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Catalog
		api.GET("/badges", h.ListBadges)
		api.GET("/badges/:key", h.GetBadge)

		// Per-user reads and global triggers
		me := api.Group("/me", middleware.PrivateNoStore())
		me.GET("/badges", h.ListMyBadges)
		me.GET("/progress", h.ListMyProgress)
		me.POST("/badge-checks/:family", h.CheckGlobalBadges)

		// Triggers from the trip, bucket-list, checklist and invitation flows
		api.POST("/trips/:id/badge-checks/:family", h.CheckTripBadges)
	}
}

// corsMiddleware returns the CORS chain. With no configured origins every
// origin is allowed (without credentials); otherwise the request Origin is
// echoed when it is in the allowlist.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.UserIDHeader, "If-None-Match"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// Force ACAO: * even without an Origin header (simple health checks).
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps the request body size to maxBytes using http.MaxBytesReader.
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
