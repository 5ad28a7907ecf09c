package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"resume-improver/internal/counter"
	"resume-improver/internal/shared/config"
)

func serve(t *testing.T, app *App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func TestBuildDegradesWithoutBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(config.Config{Env: "dev", LLMProvider: "openai"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	health := app.HealthService.Status()
	if health["store"] != "memory" || health["counter"] != "none" || health["ai"] != "placeholder" {
		t.Fatalf("unexpected components %v", health)
	}

	w := serve(t, app, http.MethodGet, "/api/check-limit", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"allowed":true`) {
		t.Fatalf("unexpected check-limit response %d: %s", w.Code, w.Body.String())
	}

	w = serve(t, app, http.MethodGet, "/api/counter", "")
	var resp counter.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Configured {
		t.Fatalf("expected unconfigured counter, got %+v", resp)
	}

	w = serve(t, app, http.MethodPost, "/generate-pdf", `{"resumeData":{"fullName":"A","title":"B","summary":"C"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected generate-pdf response %d: %s", w.Code, w.Body.String())
	}
}

func TestBuildUsesRedisForCounter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := miniredis.RunT(t)
	app, err := Build(config.Config{Env: "dev", RedisURL: "redis://" + srv.Addr(), LLMProvider: "none"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if app.HealthService.Status()["counter"] != "redis" {
		t.Fatalf("expected redis counter, got %v", app.HealthService.Status())
	}
	w := serve(t, app, http.MethodPost, "/api/counter", "")
	var resp counter.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Configured || resp.Count != 1 {
		t.Fatalf("unexpected counter response %+v", resp)
	}
}

func TestBuildSelectsOpenAIWithKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(config.Config{Env: "dev", LLMProvider: "openai", OpenAIAPIKey: "sk-test", LLMModel: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if app.HealthService.Status()["ai"] != "openai:gpt-4o-mini" {
		t.Fatalf("unexpected ai component %v", app.HealthService.Status()["ai"])
	}
}
