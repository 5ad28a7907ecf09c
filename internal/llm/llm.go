// Package llm is the boundary to the AI service: a prompt in, a JSON object out.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-improver/internal/shared/telemetry"
)

// Prompt is one chat-style request expecting a JSON object back.
type Prompt struct {
	Name        string
	System      string
	User        string
	Temperature float32
}

// Client completes prompts. Implementations return only syntactically valid JSON.
type Client interface {
	CompleteJSON(ctx context.Context, p Prompt) (json.RawMessage, error)
}

// ErrNotConfigured is returned by Placeholder.
var ErrNotConfigured = errors.New("ai service not configured")

// ErrEmptyResponse is returned when the provider answers without content.
var ErrEmptyResponse = errors.New("ai service returned no content")

// Placeholder stands in when no provider is configured.
type Placeholder struct{}

// CompleteJSON returns ErrNotConfigured.
func (Placeholder) CompleteJSON(context.Context, Prompt) (json.RawMessage, error) {
	return nil, ErrNotConfigured
}

// ExtractJSONObject returns the outermost JSON object in raw, tolerating
// markdown fences and prose around it.
func ExtractJSONObject(raw string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmptyResponse
	}
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return json.RawMessage(trimmed), nil
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	candidate := trimmed[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	return json.RawMessage(candidate), nil
}

// Usage is the token accounting reported by a provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LogUsage writes one llm.response line.
func LogUsage(provider, model, prompt string, usage *Usage, elapsed time.Duration) {
	fields := map[string]any{
		"provider":    provider,
		"model":       model,
		"prompt":      prompt,
		"duration_ms": elapsed.Milliseconds(),
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["completion_tokens"] = usage.CompletionTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}
