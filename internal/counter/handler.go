package counter

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/server/respond"
	"resume-improver/internal/shared/telemetry"
)

// Response is the body of both counter routes.
type Response struct {
	Count      int64 `json:"count"`
	Configured bool  `json:"configured"`
}

// Handler serves the counter. A nil Store means no backend is configured.
type Handler struct {
	Store Store
}

// NewHandler constructs a Handler.
func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches counter routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/counter", h.get)
	rg.POST("/counter", h.incr)
}

func (h *Handler) get(c *gin.Context) {
	if h.Store == nil {
		respond.OK(c, Response{})
		return
	}
	n, err := h.Store.Get(c.Request.Context())
	if err != nil {
		telemetry.Warn("counter.get_failed", map[string]any{"err": err})
		respond.OK(c, Response{})
		return
	}
	respond.OK(c, Response{Count: n, Configured: true})
}

func (h *Handler) incr(c *gin.Context) {
	if h.Store == nil {
		respond.OK(c, Response{})
		return
	}
	n, err := h.Store.Incr(c.Request.Context())
	if err != nil {
		telemetry.Error("counter.incr_failed", map[string]any{"err": err})
		respond.JSON(c, http.StatusInternalServerError, Response{})
		return
	}
	respond.OK(c, Response{Count: n, Configured: true})
}
