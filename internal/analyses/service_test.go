package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"resume-improver/internal/llm"
	"resume-improver/internal/shared/apperr"
	"resume-improver/resume/model"
)

func TestRunInsufficientTextNeverCallsAI(t *testing.T) {
	client := &fakeLLM{reply: resumeJSON}
	svc, _ := newService(client, "Too short to be a resume.")

	for _, action := range []Action{ActionAnalyze, ActionRewrite} {
		trail := NewTrail()
		_, err := svc.Run(context.Background(), trail, request(action))
		if !errors.Is(err, apperr.ErrInsufficientText) {
			t.Fatalf("%s: expected ErrInsufficientText, got %v", action, err)
		}
		if trail.Current() != StateFailed {
			t.Fatalf("%s: expected failed trail, got %s", action, trail)
		}
	}
	if n := len(client.calls()); n != 0 {
		t.Fatalf("expected no AI calls, got %d", n)
	}
}

func TestRunExtractionFailure(t *testing.T) {
	client := &fakeLLM{reply: resumeJSON}
	svc, _ := newService(client, resumeText)
	svc.Extractor = failingExtractor{}

	_, err := svc.Run(context.Background(), NewTrail(), request(ActionRewrite))
	if !errors.Is(err, apperr.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if n := len(client.calls()); n != 0 {
		t.Fatalf("expected no AI calls, got %d", n)
	}
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, []byte) (string, error) {
	return "", apperr.Wrap(apperr.ErrExtractionFailed, "extraction_failed", errors.New("malformed xref"))
}

func TestRewriteRecordsUsageOnSuccess(t *testing.T) {
	client := &fakeLLM{reply: resumeJSON}
	svc, clock := newService(client, resumeText)
	ctx := context.Background()

	trail := NewTrail()
	res, err := svc.Run(ctx, trail, request(ActionRewrite))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ResumeData == nil || res.ResumeData.FullName != "Layla Hassan" {
		t.Fatalf("unexpected result %+v", res)
	}
	want := "received>validated>extracted>ai-processing>completed"
	if trail.String() != want {
		t.Fatalf("trail = %q, want %q", trail, want)
	}

	decision := svc.Limiter.Check(ctx, "203.0.113.7")
	if decision.Allowed || decision.RemainingSeconds < 7199 {
		t.Fatalf("expected full cooldown after rewrite, got %+v", decision)
	}

	clock.Advance(30 * time.Minute)
	_, err = svc.Run(ctx, NewTrail(), request(ActionRewrite))
	var limited *apperr.RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if limited.RemainingSeconds != 5400 {
		t.Fatalf("expected 5400 seconds remaining, got %d", limited.RemainingSeconds)
	}
	if n := len(client.calls()); n != 1 {
		t.Fatalf("expected the limited request to skip the AI call, got %d calls", n)
	}
}

func TestRewriteSanitizesPlaceholders(t *testing.T) {
	svc, _ := newService(&fakeLLM{reply: resumeJSON}, resumeText)
	res, err := svc.Run(context.Background(), NewTrail(), request(ActionRewrite))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	data := res.ResumeData
	if data.Education[0].Year != "" || data.Contact.Phone != "" {
		t.Fatalf("expected placeholders to be emptied, got %+v", data)
	}
}

func TestRewriteFailureLeavesLimitUntouched(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLM
		kind   error
	}{
		{name: "ai error", client: &fakeLLM{err: errors.New("upstream 503")}, kind: apperr.ErrAIResponse},
		{name: "malformed json", client: &fakeLLM{reply: `{"fullName":"Layla"}`}, kind: apperr.ErrAIResponse},
		{name: "not configured", client: nil, kind: apperr.ErrAIResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var client llm.Client
			if tc.client != nil {
				client = tc.client
			}
			svc, _ := newService(client, resumeText)
			ctx := context.Background()

			before := svc.Limiter.Check(ctx, "203.0.113.7")
			_, err := svc.Run(ctx, NewTrail(), request(ActionRewrite))
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
			after := svc.Limiter.Check(ctx, "203.0.113.7")
			if before != after {
				t.Fatalf("limit changed: before %+v after %+v", before, after)
			}
		})
	}
}

func TestRewriteForJobFoldsConfirmedSkills(t *testing.T) {
	client := &fakeLLM{reply: resumeJSON}
	svc, _ := newService(client, resumeText)

	req := request(ActionRewriteForJob)
	req.JobDescription = "Senior Go engineer"
	req.SkillAnswers = `[{"skill":"Go","hasSkill":true,"yearsOfExperience":3},{"skill":"Rust","hasSkill":false}]`

	trail := NewTrail()
	if _, err := svc.Run(context.Background(), trail, req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	calls := client.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one AI call, got %d", len(calls))
	}
	p := calls[0]
	if p.Name != llm.PromptRewriteForJob {
		t.Fatalf("unexpected prompt %q", p.Name)
	}
	promptText := p.System + p.User
	if !strings.Contains(promptText, "Go (3 years experience)") {
		t.Fatalf("expected confirmed skill in prompt context")
	}
	if strings.Contains(promptText, "Rust") {
		t.Fatalf("declined skill must not appear in prompt context")
	}
	want := "received>validated>extracted>awaiting-skill-answers>ai-processing>completed"
	if trail.String() != want {
		t.Fatalf("trail = %q, want %q", trail, want)
	}
}

func TestRewriteForJobWithoutAnswersSkipsAwaiting(t *testing.T) {
	svc, _ := newService(&fakeLLM{reply: resumeJSON}, resumeText)
	req := request(ActionRewriteForJob)
	req.JobDescription = "Senior Go engineer"
	req.SkillAnswers = "[]"

	trail := NewTrail()
	if _, err := svc.Run(context.Background(), trail, req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "received>validated>extracted>ai-processing>completed"
	if trail.String() != want {
		t.Fatalf("trail = %q, want %q", trail, want)
	}
}

func TestCompareDoesNotConsumeQuota(t *testing.T) {
	client := &fakeLLM{reply: jobJSON}
	svc, _ := newService(client, resumeText)
	ctx := context.Background()

	req := request(ActionCompare)
	req.JobDescription = "Platform engineer"

	trail := NewTrail()
	res, err := svc.Run(ctx, trail, req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.JobAnalysis == nil || len(res.JobAnalysis.MissingSkills) != 2 {
		t.Fatalf("unexpected job analysis %+v", res.JobAnalysis)
	}
	if res.JobAnalysis.MissingSkills[1].Importance != model.ImportancePreferred {
		t.Fatalf("expected importance to be normalized, got %q", res.JobAnalysis.MissingSkills[1].Importance)
	}
	if res.ResumeText != resumeText {
		t.Fatalf("expected resume text echoed back")
	}
	want := "received>validated>extracted>compared>awaiting-skill-answers>completed"
	if trail.String() != want {
		t.Fatalf("trail = %q, want %q", trail, want)
	}
	if d := svc.Limiter.Check(ctx, "203.0.113.7"); !d.Allowed {
		t.Fatalf("comparison must not consume quota, got %+v", d)
	}
}

func TestCompareWithoutGapsCompletes(t *testing.T) {
	svc, _ := newService(&fakeLLM{reply: noGapJSON}, resumeText)
	req := request(ActionCompare)
	req.JobDescription = "Platform engineer"

	trail := NewTrail()
	if _, err := svc.Run(context.Background(), trail, req); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if trail.String() != "received>validated>extracted>compared>completed" {
		t.Fatalf("unexpected trail %q", trail)
	}
}

func TestCompareRejectsUnknownImportance(t *testing.T) {
	svc, _ := newService(&fakeLLM{reply: `{"missingSkills":[{"name":"Go","importance":"nice"}],"matchingSkills":[],"irrelevantSkills":[]}`}, resumeText)
	req := request(ActionCompare)
	req.JobDescription = "Platform engineer"
	if _, err := svc.Run(context.Background(), NewTrail(), req); !errors.Is(err, apperr.ErrAIResponse) {
		t.Fatalf("expected ErrAIResponse, got %v", err)
	}
}

func TestAnalyzeWritesInRequestedLanguage(t *testing.T) {
	client := &fakeLLM{reply: analysisJSON}
	svc, _ := newService(client, resumeText)

	req := request(ActionAnalyze)
	req.Language = language.Arabic
	res, err := svc.Run(context.Background(), NewTrail(), req)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Analysis == nil || len(res.Analysis.Strengths) != 3 {
		t.Fatalf("unexpected analysis %+v", res.Analysis)
	}
	if !strings.Contains(client.calls()[0].System, "Arabic") {
		t.Fatalf("expected the prompt to ask for Arabic feedback")
	}
	if d := svc.Limiter.Check(context.Background(), "203.0.113.7"); !d.Allowed {
		t.Fatalf("analysis must not consume quota")
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "unknown action", mutate: func(r *Request) { r.Action = "summarize" }},
		{name: "action not permitted on route", mutate: func(r *Request) {
			r.Action = ActionCompare
			r.JobDescription = "jd"
			r.Permitted = []Action{ActionAnalyze, ActionRewrite}
		}},
		{name: "not a pdf", mutate: func(r *Request) { r.File.ContentType = "image/png" }},
		{name: "too large", mutate: func(r *Request) { r.File.Size = 10<<20 + 1 }},
		{name: "missing job description", mutate: func(r *Request) { r.Action = ActionCompare }},
		{name: "missing skill answers", mutate: func(r *Request) {
			r.Action = ActionRewriteForJob
			r.JobDescription = "jd"
		}},
		{name: "malformed skill answers", mutate: func(r *Request) {
			r.Action = ActionRewriteForJob
			r.JobDescription = "jd"
			r.SkillAnswers = `{"skill":"Go"}`
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeLLM{reply: resumeJSON}
			svc, _ := newService(client, resumeText)
			req := request(ActionRewrite)
			tc.mutate(&req)

			trail := NewTrail()
			_, err := svc.Run(context.Background(), trail, req)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if trail.String() != "received>failed(validation error)" {
				t.Fatalf("unexpected trail %q", trail)
			}
			if len(client.calls()) != 0 {
				t.Fatalf("validation failures must not reach the AI")
			}
		})
	}
}

func TestRunTimeout(t *testing.T) {
	svc, _ := newService(&fakeLLM{block: true}, resumeText)
	svc.Timeout = 20 * time.Millisecond
	ctx := context.Background()

	_, err := svc.Run(ctx, NewTrail(), request(ActionRewrite))
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if d := svc.Limiter.Check(ctx, "203.0.113.7"); !d.Allowed {
		t.Fatalf("a timed out rewrite must not consume quota")
	}
}
