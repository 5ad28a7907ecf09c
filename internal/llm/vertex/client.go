package vertex

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"resume-improver/internal/llm"
)

const (
	defaultLocation = "us-central1"
	defaultModel    = "gemini-1.5-flash"
	providerName    = "vertex"
)

// Client wraps the Vertex AI Gemini API behind llm.Client.
type Client struct {
	client    *genai.Client
	modelName string
	projectID string
	location  string
}

// NewClient creates a Vertex AI client. Credentials come from the ambient
// Google application default credentials.
func NewClient(ctx context.Context, projectID, location, model string) (*Client, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if strings.TrimSpace(location) == "" {
		location = defaultLocation
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}
	return &Client{
		client:    client,
		modelName: model,
		projectID: projectID,
		location:  location,
	}, nil
}

// CompleteJSON generates a JSON response for the prompt.
func (v *Client) CompleteJSON(ctx context.Context, p llm.Prompt) (json.RawMessage, error) {
	start := time.Now()

	model := v.client.GenerativeModel(v.modelName)
	model.SetTemperature(p.Temperature)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(4096)
	model.ResponseMIMEType = "application/json"
	if p.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := textFromResponse(resp)
	if err != nil {
		return nil, err
	}
	llm.LogUsage(providerName, v.modelName, p.Name, usageFromResponse(resp), time.Since(start))
	return llm.ExtractJSONObject(text)
}

// Close closes the Vertex AI client.
func (v *Client) Close() error {
	return v.client.Close()
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates returned")
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", llm.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", llm.ErrEmptyResponse
	}
	return result, nil
}

func usageFromResponse(resp *genai.GenerateContentResponse) *llm.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &llm.Usage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}

var _ llm.Client = (*Client)(nil)
