package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/server/respond"
	"resume-improver/internal/shared/telemetry"
)

// Recovery turns a panic into the generic localized 500 body. The stack is
// logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"client_id":  ClientIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Fail(c, fmt.Errorf("panic: %v", rec))
		}()
		c.Next()
	}
}
