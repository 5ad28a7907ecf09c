package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/analyses"
	"resume-improver/internal/counter"
	"resume-improver/internal/documents"
	"resume-improver/internal/ratelimit"
	"resume-improver/internal/shared/config"
	"resume-improver/internal/shared/metrics"
	"resume-improver/internal/shared/server/middleware"
	"resume-improver/internal/shared/server/respond"
)

const throttleGroupAI = "ai"

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config           config.Config
	AnalysisHandler  *analyses.Handler
	LimitHandler     *ratelimit.Handler
	CounterHandler   *counter.Handler
	DocumentsHandler *documents.Handler
	Throttler        *middleware.Throttler
	Health           func() map[string]any
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Every route is served under both /api and the root.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.ClientIdentity(func(c *gin.Context) string { return ratelimit.ClientID(c.Request) }),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Throttle(middleware.ThrottleConfig{
			Rules:    throttleRules(deps.Config),
			GroupFor: throttleGroup,
			Limiter:  deps.Throttler,
		}),
	)

	health := func(c *gin.Context) {
		body := gin.H{"ok": true}
		if deps.Health != nil {
			for k, v := range deps.Health() {
				body[k] = v
			}
		}
		respond.JSON(c, http.StatusOK, body)
	}
	r.GET("/health", health)
	r.GET("/metrics", metrics.Handler())

	for _, rg := range []*gin.RouterGroup{r.Group("/api"), r.Group("")} {
		if deps.AnalysisHandler != nil {
			deps.AnalysisHandler.RegisterRoutes(rg)
		}
		if deps.LimitHandler != nil {
			deps.LimitHandler.RegisterRoutes(rg)
		}
		if deps.CounterHandler != nil {
			deps.CounterHandler.RegisterRoutes(rg)
		}
		if deps.DocumentsHandler != nil {
			deps.DocumentsHandler.RegisterRoutes(rg)
		}
	}
	r.GET("/api/health", health)

	return r
}

// throttleRules is empty when no rate is configured, which disables the throttle.
func throttleRules(cfg config.Config) map[string]middleware.ThrottleRule {
	if cfg.ThrottlePerMinute <= 0 || cfg.ThrottleBurst <= 0 {
		return nil
	}
	return map[string]middleware.ThrottleRule{
		throttleGroupAI: middleware.PerMinute(cfg.ThrottlePerMinute, cfg.ThrottleBurst),
	}
}

// throttleGroup places the AI-calling routes in the burst-limited group.
func throttleGroup(c *gin.Context) string {
	path := c.FullPath()
	if strings.HasSuffix(path, "/analyze") || strings.HasSuffix(path, "/compare-job") {
		return throttleGroupAI
	}
	return ""
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
