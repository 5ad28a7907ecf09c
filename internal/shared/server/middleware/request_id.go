package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "requestId"
	clientIDKey  = "clientId"

	// StatusTransitionKey holds the orchestrator state trail logged per request.
	StatusTransitionKey = "statusTransition"
	// ActionKey holds the requested action, when the route has one.
	ActionKey = "action"
)

// RequestID attaches a request ID to context and response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(requestIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// ClientIdentity stores the caller identity derived by identify for handlers and logs.
func ClientIdentity(identify func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identify != nil {
			c.Set(clientIDKey, identify(c))
		}
		c.Next()
	}
}

// ClientIDFromContext fetches the identity stored by ClientIdentity.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(clientIDKey)
}
