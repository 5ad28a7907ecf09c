package ratelimit

import (
	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/server/respond"
)

// Handler exposes the limit status endpoint.
type Handler struct {
	Limiter *Limiter
}

// NewHandler constructs a Handler.
func NewHandler(l *Limiter) *Handler {
	return &Handler{Limiter: l}
}

// RegisterRoutes attaches rate limit routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/check-limit", h.checkLimit)
}

// checkLimit never fails the caller; an unusable store reads as allowed.
func (h *Handler) checkLimit(c *gin.Context) {
	clientID := ClientID(c.Request)
	c.Set("clientId", clientID)
	respond.OK(c, h.Limiter.Check(c.Request.Context(), clientID))
}
