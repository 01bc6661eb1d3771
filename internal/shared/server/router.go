package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"applykit-backend/internal/generation"
	"applykit-backend/internal/resumes"
	"applykit-backend/internal/sessions"
	"applykit-backend/internal/shared/config"
	"applykit-backend/internal/shared/metrics"
	"applykit-backend/internal/shared/server/middleware"
	"applykit-backend/internal/shared/server/respond"
	"applykit-backend/internal/templates"
)

// RouterDeps carries the feature handlers the router mounts.
type RouterDeps struct {
	Sessions   *sessions.Handler
	Resumes    *resumes.Handler
	Templates  *templates.Handler
	Generation *generation.Handler
	Limiter    *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Session(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.Sessions.RegisterRoutes(api)
	deps.Resumes.RegisterRoutes(api)
	deps.Templates.RegisterRoutes(api)
	deps.Generation.RegisterRoutes(api)

	// The generate endpoint gets its own throttle; everything else is
	// cheap enough to leave open.
	generateRule := middleware.RateLimitRule{
		Rate:  cfg.GenerateRatePerMin / 60.0,
		Burst: cfg.GenerateBurst,
	}
	deps.Generation.RegisterGenerateRoute(api, middleware.RateLimit(generateRule, deps.Limiter))

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
