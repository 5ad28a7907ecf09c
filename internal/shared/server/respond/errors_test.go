package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/i18n"
)

func serveFail(t *testing.T, err error, acceptLanguage string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) { Fail(c, err) })
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestFailMapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation keeps its own message",
			err:        apperr.Validation(i18n.KeyInvalidFileType),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeValidation,
			wantMsg:    "Only PDF files are allowed",
		},
		{
			name:       "insufficient text",
			err:        fmt.Errorf("extract: %w", apperr.ErrInsufficientText),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInsufficientText,
			wantMsg:    "Could not extract enough text from the PDF",
		},
		{
			name:       "extraction failed",
			err:        apperr.Wrap(apperr.ErrExtractionFailed, "", errors.New("xref table broken")),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeExtractionFailed,
			wantMsg:    "Failed to read the PDF file",
		},
		{
			name:       "timeout",
			err:        apperr.Wrap(apperr.ErrTimeout, "", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   CodeTimeout,
			wantMsg:    "The request took too long, please try again",
		},
		{
			name:       "ai response hides detail",
			err:        apperr.Wrap(apperr.ErrAIResponse, "", errors.New("missing field skills")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeAIResponse,
			wantMsg:    "Failed to process resume, please try again",
		},
		{
			name:       "unknown error is generic",
			err:        errors.New("dial tcp 10.0.0.1:6379: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
			wantMsg:    "Failed to process request",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := serveFail(t, tc.err, "")
			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.Code)
			}
			body := decodeError(t, resp)
			if body["error"] != tc.wantCode {
				t.Fatalf("expected code %q, got %v", tc.wantCode, body["error"])
			}
			if body["message"] != tc.wantMsg {
				t.Fatalf("expected message %q, got %v", tc.wantMsg, body["message"])
			}
			if Status(tc.err) != tc.wantStatus {
				t.Fatalf("Status() disagrees with Fail: %d", Status(tc.err))
			}
		})
	}
}

func TestFailRateLimited(t *testing.T) {
	resp := serveFail(t, fmt.Errorf("rewrite: %w", &apperr.RateLimitedError{RemainingSeconds: 3600}), "")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "3600" {
		t.Fatalf("expected Retry-After 3600, got %q", got)
	}
	body := decodeError(t, resp)
	if body["error"] != CodeRateLimited {
		t.Fatalf("expected rate_limited, got %v", body["error"])
	}
	if body["remainingTime"] != float64(3600) {
		t.Fatalf("expected remainingTime 3600, got %v", body["remainingTime"])
	}
}

func TestFailLocalizesMessage(t *testing.T) {
	resp := serveFail(t, apperr.Validation(i18n.KeyMissingField, "title"), "ar")
	body := decodeError(t, resp)
	if body["message"] != "حقل مطلوب مفقود: title" {
		t.Fatalf("unexpected arabic message %v", body["message"])
	}
}
