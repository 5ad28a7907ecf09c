// Package analyses orchestrates résumé analysis, job comparison and rewrites.
package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/text/language"

	"resume-improver/internal/llm"
	"resume-improver/internal/ratelimit"
	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/i18n"
	"resume-improver/internal/shared/metrics"
	"resume-improver/internal/shared/telemetry"
	"resume-improver/internal/uploads"
	"resume-improver/resume/model"
)

// DefaultTimeout bounds one request from validation to the AI response.
const DefaultTimeout = 60 * time.Second

// Action selects the operation a request runs.
type Action string

const (
	ActionAnalyze       Action = "analyze"
	ActionRewrite       Action = "rewrite"
	ActionCompare       Action = "compare"
	ActionRewriteForJob Action = "rewrite-for-job"
)

// rewrites consume the client's quota.
func (a Action) rewrites() bool {
	return a == ActionRewrite || a == ActionRewriteForJob
}

func (a Action) needsJob() bool {
	return a == ActionCompare || a == ActionRewriteForJob
}

// TextExtractor turns an uploaded document into résumé text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Request is one multipart submission.
type Request struct {
	ClientID       string
	Action         Action
	Permitted      []Action
	File           uploads.File
	JobDescription string
	SkillAnswers   string
	Language       language.Tag
}

// Result carries exactly one operation's output.
type Result struct {
	Analysis    *model.ResumeAnalysis `json:"analysis,omitempty"`
	ResumeData  *model.ResumeData     `json:"resumeData,omitempty"`
	JobAnalysis *model.JobAnalysis    `json:"jobAnalysis,omitempty"`
	ResumeText  string                `json:"resumeText,omitempty"`
}

// Service sequences validation, extraction and the AI call for each request.
type Service struct {
	Uploads   uploads.Validator
	Extractor TextExtractor
	LLM       llm.Client
	Limiter   *ratelimit.Limiter
	Timeout   time.Duration
}

// Run validates req, gates rewrites on the limiter, extracts the text and
// dispatches the action. Every step is recorded on trail.
func (s *Service) Run(ctx context.Context, trail *Trail, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	res, err := s.run(ctx, trail, req)
	if err != nil {
		err = asTimeout(ctx, err)
		trail.Fail(err)
		return Result{}, err
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, trail *Trail, req Request) (Result, error) {
	answers, err := s.validate(req)
	if err != nil {
		return Result{}, err
	}
	if err := trail.Advance(StateValidated); err != nil {
		return Result{}, err
	}

	if req.Action.rewrites() {
		if err := s.gate(ctx, req.ClientID); err != nil {
			return Result{}, err
		}
	}

	text, err := s.Extractor.Extract(ctx, req.File.Data)
	if err != nil {
		return Result{}, err
	}
	if err := trail.Advance(StateExtracted); err != nil {
		return Result{}, err
	}

	switch req.Action {
	case ActionAnalyze:
		analysis, err := s.Analyze(ctx, trail, text, req.Language)
		if err != nil {
			return Result{}, err
		}
		return Result{Analysis: &analysis}, nil
	case ActionRewrite:
		data, err := s.Rewrite(ctx, trail, req.ClientID, text)
		if err != nil {
			return Result{}, err
		}
		return Result{ResumeData: &data}, nil
	case ActionCompare:
		job, err := s.Compare(ctx, trail, text, req.JobDescription)
		if err != nil {
			return Result{}, err
		}
		return Result{JobAnalysis: &job, ResumeText: text}, nil
	default:
		data, err := s.RewriteForJob(ctx, trail, req.ClientID, text, req.JobDescription, answers)
		if err != nil {
			return Result{}, err
		}
		return Result{ResumeData: &data}, nil
	}
}

func (s *Service) validate(req Request) ([]model.SkillAnswer, error) {
	if !permitted(req.Action, req.Permitted) {
		return nil, apperr.Validation(i18n.KeyInvalidAction)
	}
	if err := s.Uploads.Validate(req.File); err != nil {
		return nil, err
	}
	if req.Action.needsJob() && req.JobDescription == "" {
		return nil, apperr.Validation(i18n.KeyJobDescriptionRequired)
	}
	if req.Action != ActionRewriteForJob {
		return nil, nil
	}
	answers, err := model.ParseSkillAnswers(req.SkillAnswers)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrValidation, i18n.KeyInvalidSkillAnswers, err)
	}
	return answers, nil
}

func permitted(action Action, allowed []Action) bool {
	if len(allowed) == 0 {
		allowed = []Action{ActionAnalyze, ActionRewrite, ActionCompare, ActionRewriteForJob}
	}
	for _, a := range allowed {
		if a == action {
			return true
		}
	}
	return false
}

// gate answers RateLimitedError while the client's cooldown runs.
func (s *Service) gate(ctx context.Context, clientID string) error {
	decision := s.Limiter.Check(ctx, clientID)
	if decision.Allowed {
		return nil
	}
	metrics.IncRateLimited()
	return &apperr.RateLimitedError{RemainingSeconds: decision.RemainingSeconds}
}

// Analyze returns strengths and improvements written in lang.
func (s *Service) Analyze(ctx context.Context, trail *Trail, text string, lang language.Tag) (model.ResumeAnalysis, error) {
	if err := trail.Advance(StateAIProcessing); err != nil {
		return model.ResumeAnalysis{}, err
	}
	raw, err := s.complete(ctx, llm.AnalyzePrompt(text, i18n.LanguageName(lang)))
	if err != nil {
		return model.ResumeAnalysis{}, err
	}
	analysis, err := model.DecodeAnalysis(raw)
	if err != nil {
		return model.ResumeAnalysis{}, apperr.Wrap(apperr.ErrAIResponse, i18n.KeyAIFailed, err)
	}
	return analysis, trail.Advance(StateCompleted)
}

// Rewrite produces an ATS rewrite and records the client's usage on success.
func (s *Service) Rewrite(ctx context.Context, trail *Trail, clientID, text string) (model.ResumeData, error) {
	return s.rewrite(ctx, trail, clientID, llm.RewritePrompt(text))
}

// Compare matches the résumé against a job description. A comparison with
// missing skills leaves the request awaiting the applicant's answers.
func (s *Service) Compare(ctx context.Context, trail *Trail, text, jobDescription string) (model.JobAnalysis, error) {
	raw, err := s.complete(ctx, llm.ComparePrompt(text, jobDescription))
	if err != nil {
		return model.JobAnalysis{}, err
	}
	job, err := model.DecodeJobAnalysis(raw)
	if err != nil {
		return model.JobAnalysis{}, apperr.Wrap(apperr.ErrAIResponse, i18n.KeyAIFailed, err)
	}
	if err := trail.Advance(StateCompared); err != nil {
		return model.JobAnalysis{}, err
	}
	if len(job.MissingSkills) > 0 {
		if err := trail.Advance(StateAwaitingSkillAnswers); err != nil {
			return model.JobAnalysis{}, err
		}
	}
	return job, trail.Advance(StateCompleted)
}

// RewriteForJob tailors the résumé to the job, folding in the skills the
// applicant confirmed. Declined skills are left to the prompt's judgement.
func (s *Service) RewriteForJob(ctx context.Context, trail *Trail, clientID, text, jobDescription string, answers []model.SkillAnswer) (model.ResumeData, error) {
	if len(answers) > 0 {
		if err := trail.Advance(StateAwaitingSkillAnswers); err != nil {
			return model.ResumeData{}, err
		}
	}
	prompt := llm.RewriteForJobPrompt(text, jobDescription, model.ConfirmedSkills(answers))
	return s.rewrite(ctx, trail, clientID, prompt)
}

func (s *Service) rewrite(ctx context.Context, trail *Trail, clientID string, prompt llm.Prompt) (model.ResumeData, error) {
	if err := trail.Advance(StateAIProcessing); err != nil {
		return model.ResumeData{}, err
	}
	metrics.IncRewriteStarted()

	raw, err := s.complete(ctx, prompt)
	if err != nil {
		metrics.IncRewriteFailed()
		return model.ResumeData{}, err
	}
	data, err := model.DecodeResumeData(raw)
	if err != nil {
		metrics.IncRewriteFailed()
		return model.ResumeData{}, apperr.Wrap(apperr.ErrAIResponse, i18n.KeyAIFailed, err)
	}

	s.Limiter.Record(context.WithoutCancel(ctx), clientID)
	metrics.IncRewriteCompleted()
	return model.Sanitize(data), trail.Advance(StateCompleted)
}

func (s *Service) complete(ctx context.Context, prompt llm.Prompt) (json.RawMessage, error) {
	if s.LLM == nil {
		return nil, apperr.Wrap(apperr.ErrAIResponse, i18n.KeyAIFailed, llm.ErrNotConfigured)
	}
	start := time.Now()
	raw, err := s.LLM.CompleteJSON(ctx, prompt)
	metrics.ObserveAICallDuration(time.Since(start))
	if err != nil {
		telemetry.Warn("analysis.ai_call_failed", map[string]any{"prompt": prompt.Name, "err": err})
		if timedOut(ctx, err) {
			return nil, apperr.Wrap(apperr.ErrTimeout, i18n.KeyTimeout, err)
		}
		return nil, apperr.Wrap(apperr.ErrAIResponse, i18n.KeyAIFailed, err)
	}
	return raw, nil
}

func (s *Service) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// asTimeout reclassifies errors raised after the request deadline passed.
func asTimeout(ctx context.Context, err error) error {
	if errors.Is(err, apperr.ErrTimeout) || !timedOut(ctx, err) {
		return err
	}
	return apperr.Wrap(apperr.ErrTimeout, i18n.KeyTimeout, err)
}
