package analyses

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"resume-improver/internal/extract"
	"resume-improver/internal/llm"
	"resume-improver/internal/ratelimit"
	"resume-improver/internal/uploads"
)

const (
	resumeText = "Layla Hassan, Backend Engineer. Five years building payment systems in Go and PostgreSQL at Acme Pay."

	analysisJSON = `{"strengths":["Clear impact","Relevant stack","Concise"],"improvements":["Add metrics","Add links","Tighten summary"]}`
	resumeJSON   = `{"fullName":"Layla Hassan","title":"Backend Engineer","summary":"Builds payment systems.","experience":[{"company":"Acme Pay","position":"Engineer","duration":"2019 - 2024","achievements":["Cut latency by 40%"]}],"education":[{"institution":"Cairo University","degree":"BSc","year":"Not provided"}],"skills":["Go","PostgreSQL"],"contact":{"email":"layla@example.com","phone":"N/A","location":""}}`
	jobJSON      = `{"missingSkills":[{"name":"Kubernetes","importance":"required"},{"name":"Terraform","importance":"Preferred"}],"matchingSkills":["Go"],"irrelevantSkills":["Photoshop"]}`
	noGapJSON    = `{"missingSkills":[],"matchingSkills":["Go"],"irrelevantSkills":[]}`
)

type fakeLLM struct {
	mu      sync.Mutex
	prompts []llm.Prompt
	reply   string
	err     error
	block   bool
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, p llm.Prompt) (json.RawMessage, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	reply, err, block := f.reply, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(reply), nil
}

func (f *fakeLLM) calls() []llm.Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Prompt(nil), f.prompts...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func textExtractor(text string) *extract.Extractor {
	return &extract.Extractor{Pages: func([]byte) ([]string, error) {
		return strings.Split(text, "\f"), nil
	}}
}

func newService(client llm.Client, text string) (*Service, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	return &Service{
		Extractor: textExtractor(text),
		LLM:       client,
		Limiter:   ratelimit.New(nil, ratelimit.Options{Cooldown: 2 * time.Hour, Now: clock.Now}),
		Timeout:   time.Second,
	}, clock
}

func pdfFile() uploads.File {
	return uploads.File{Name: "cv.pdf", ContentType: uploads.MimePDF, Size: 1024, Data: []byte("%PDF-1.4")}
}

func request(action Action) Request {
	return Request{
		ClientID: "203.0.113.7",
		Action:   action,
		File:     pdfFile(),
	}
}
