package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"resume-improver/internal/counter"
	"resume-improver/internal/ratelimit"
	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/server/respond"
	"resume-improver/internal/uploads"
	"resume-improver/resume/model"
)

// Document is the résumé file a session works on. An empty ContentType is
// sniffed from Data.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// MediaType returns the declared content type or the one sniffed from Data.
func (d Document) MediaType() string {
	if ct := strings.TrimSpace(d.ContentType); ct != "" {
		return ct
	}
	return http.DetectContentType(d.Data)
}

func (d Document) upload() uploads.File {
	return uploads.File{
		Name:        d.Name,
		ContentType: d.MediaType(),
		Size:        int64(len(d.Data)),
		Data:        d.Data,
	}
}

// API is the server surface a Controller needs.
type API interface {
	Rewrite(ctx context.Context, doc Document) (model.ResumeData, error)
	Compare(ctx context.Context, doc Document, jobDescription string) (model.JobAnalysis, error)
	RewriteForJob(ctx context.Context, doc Document, jobDescription string, answers []model.SkillAnswer) (model.ResumeData, error)
}

// APIError is a non-429 failure answered by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.Code, e.Status)
}

// Client calls the HTTP API. A 429 answer is returned as *apperr.RateLimitedError.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// NewClient builds a Client for baseURL, e.g. http://localhost:8080/api.
// language is sent as Accept-Language when non-empty.
func NewClient(baseURL, language string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Analyze returns strengths and improvements for the résumé.
func (c *Client) Analyze(ctx context.Context, doc Document) (model.ResumeAnalysis, error) {
	var out struct {
		Analysis model.ResumeAnalysis `json:"analysis"`
	}
	err := c.postForm(ctx, "/analyze", doc, map[string]string{"action": "analyze"}, &out)
	return out.Analysis, err
}

// Rewrite returns the generally improved résumé.
func (c *Client) Rewrite(ctx context.Context, doc Document) (model.ResumeData, error) {
	var out struct {
		ResumeData model.ResumeData `json:"resumeData"`
	}
	err := c.postForm(ctx, "/analyze", doc, map[string]string{"action": "rewrite"}, &out)
	return out.ResumeData, err
}

// Compare matches the résumé against a job description.
func (c *Client) Compare(ctx context.Context, doc Document, jobDescription string) (model.JobAnalysis, error) {
	var out struct {
		JobAnalysis model.JobAnalysis `json:"jobAnalysis"`
	}
	fields := map[string]string{"action": "compare", "jobDescription": jobDescription}
	err := c.postForm(ctx, "/compare-job", doc, fields, &out)
	return out.JobAnalysis, err
}

// RewriteForJob returns the résumé tailored to the job using the skill answers.
func (c *Client) RewriteForJob(ctx context.Context, doc Document, jobDescription string, answers []model.SkillAnswer) (model.ResumeData, error) {
	if answers == nil {
		answers = []model.SkillAnswer{}
	}
	encoded, err := json.Marshal(answers)
	if err != nil {
		return model.ResumeData{}, err
	}
	var out struct {
		ResumeData model.ResumeData `json:"resumeData"`
	}
	fields := map[string]string{
		"action":         "rewrite-for-job",
		"jobDescription": jobDescription,
		"skillAnswers":   string(encoded),
	}
	err = c.postForm(ctx, "/compare-job", doc, fields, &out)
	return out.ResumeData, err
}

// CheckLimit asks the server whether a rewrite is currently allowed.
func (c *Client) CheckLimit(ctx context.Context) (ratelimit.Decision, error) {
	var out ratelimit.Decision
	err := c.doJSON(ctx, http.MethodGet, "/check-limit", nil, &out)
	return out, err
}

// Counter reads the global improved-résumé counter. increment bumps it first.
func (c *Client) Counter(ctx context.Context, increment bool) (counter.Response, error) {
	method := http.MethodGet
	if increment {
		method = http.MethodPost
	}
	var out counter.Response
	err := c.doJSON(ctx, method, "/counter", nil, &out)
	return out, err
}

// GenerateDOCX renders data on the server and returns the document bytes.
func (c *Client) GenerateDOCX(ctx context.Context, data model.ResumeData) ([]byte, error) {
	body, err := json.Marshal(map[string]any{"resumeData": data})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-docx", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) postForm(ctx context.Context, path string, doc Document, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(doc.Name)))
	header.Set("Content-Type", doc.MediaType())
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return err
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.sendJSON(req, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	return c.sendJSON(req, out)
}

func (c *Client) sendJSON(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	return c.httpClient.Do(req)
}

func decodeError(resp *http.Response) error {
	var body respond.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode == http.StatusTooManyRequests || body.Error == respond.CodeRateLimited {
		remaining := 0
		if body.RemainingTime != nil {
			remaining = *body.RemainingTime
		}
		return &apperr.RateLimitedError{RemainingSeconds: remaining}
	}
	code := body.Error
	if code == "" {
		code = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Code: code, Message: body.Message}
}
