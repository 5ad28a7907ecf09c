package respond

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/i18n"
	"resume-improver/internal/shared/telemetry"
)

// Error codes written to the "error" field of failure bodies.
const (
	CodeValidation       = "validation_error"
	CodeRateLimited      = "rate_limited"
	CodeExtractionFailed = "extraction_failed"
	CodeInsufficientText = "insufficient_text"
	CodeAIResponse       = "ai_response_error"
	CodeTimeout          = "timeout"
	CodeInternal         = "internal_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	RemainingTime *int   `json:"remainingTime,omitempty"`
}

// Error sends a failure body and logs it.
func Error(c *gin.Context, status int, code, message string) {
	logError(c, status, code, message, nil)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// RateLimited sends a 429 with the remaining wait and a Retry-After header.
func RateLimited(c *gin.Context, remainingSeconds int, message string) {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	retryAfter := int(math.Max(1, float64(remainingSeconds)))
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	logError(c, http.StatusTooManyRequests, CodeRateLimited, message, nil)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error:         CodeRateLimited,
		Message:       message,
		RemainingTime: &remainingSeconds,
	})
}

// Fail maps err to its status and localized message. Internal detail is logged, never returned.
func Fail(c *gin.Context, err error) {
	tag := i18n.Match(c.GetHeader("Accept-Language"))

	var limited *apperr.RateLimitedError
	if errors.As(err, &limited) {
		RateLimited(c, limited.RemainingSeconds, i18n.Message(tag, i18n.KeyRateLimited))
		return
	}

	status, code, key := classify(err)
	var args []any
	if k, a := apperr.KeyOf(err); k != "" && status != http.StatusInternalServerError {
		key, args = k, a
	}
	message := i18n.Message(tag, key, args...)
	logError(c, status, code, message, err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: message})
}

// Status returns the HTTP status Fail would answer err with.
func Status(err error) int {
	if errors.Is(err, apperr.ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	status, _, _ := classify(err)
	return status
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, CodeValidation, i18n.KeyInvalidRequest
	case errors.Is(err, apperr.ErrInsufficientText):
		return http.StatusBadRequest, CodeInsufficientText, i18n.KeyInsufficientText
	case errors.Is(err, apperr.ErrExtractionFailed):
		return http.StatusBadRequest, CodeExtractionFailed, i18n.KeyExtractionFailed
	case errors.Is(err, apperr.ErrTimeout):
		return http.StatusGatewayTimeout, CodeTimeout, i18n.KeyTimeout
	case errors.Is(err, apperr.ErrAIResponse):
		return http.StatusInternalServerError, CodeAIResponse, i18n.KeyAIFailed
	default:
		return http.StatusInternalServerError, CodeInternal, i18n.KeyInternal
	}
}

func logError(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if clientID := c.GetString("clientId"); clientID != "" {
		fields["client_id"] = clientID
	}
	if cause != nil {
		fields["err"] = cause
	}
	telemetry.Error("http.error", fields)
}
