package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/telemetry"
)

// Logging writes one "request.complete" line per request. 4xx responses log at
// warn and 5xx at error. Preflight requests are not logged.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"request_id":        RequestIDFromContext(c),
			"client_id":         ClientIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.FullPath(),
			"status":            status,
			"duration_ms":       float64(time.Since(start).Microseconds()) / 1000.0,
			"action":            c.GetString(ActionKey),
			"status_transition": c.GetString(StatusTransitionKey),
			"user_agent":        c.Request.UserAgent(),
		}
		if fields["path"] == "" {
			fields["path"] = c.Request.URL.Path
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields["errors"] = errs.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
