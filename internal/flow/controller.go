package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-improver/internal/shared/apperr"
	"resume-improver/internal/shared/telemetry"
	"resume-improver/internal/uploads"
	"resume-improver/resume/model"
)

// DefaultExtractDelay is the pause shown while the file is "extracting".
const DefaultExtractDelay = time.Second

// ErrNoDocument is returned when a step needs a selected file.
var ErrNoDocument = errors.New("no résumé file selected")

// RateLimitNotice tells the user when the next rewrite is allowed.
type RateLimitNotice struct {
	RemainingSeconds int
}

// Countdown formats the wait as h:mm:ss, or m:ss below an hour.
func (n RateLimitNotice) Countdown() string {
	s := n.RemainingSeconds
	if s < 0 {
		s = 0
	}
	hours, minutes, secs := s/3600, (s%3600)/60, s%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Pacer waits for d or until ctx is done.
type Pacer func(ctx context.Context, d time.Duration) error

// Controller runs one session. Each step is synchronous, so at most one API
// call is in flight.
type Controller struct {
	API          API
	Limiter      *LocalLimiter
	Uploads      uploads.Validator
	Pace         Pacer
	ExtractDelay time.Duration

	sessionID      string
	stage          Stage
	doc            *Document
	jobDescription string
	jobAnalysis    *model.JobAnalysis
	answers        []model.SkillAnswer
	resume         *model.ResumeData
	notice         *RateLimitNotice
	err            error
}

// NewController starts a session on the landing stage.
func NewController(api API, limiter *LocalLimiter) *Controller {
	return &Controller{
		API:          api,
		Limiter:      limiter,
		Pace:         sleep,
		ExtractDelay: DefaultExtractDelay,
		sessionID:    uuid.NewString(),
	}
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage { return c.stage }

// SessionID identifies the session in log lines.
func (c *Controller) SessionID() string { return c.sessionID }

// Resume returns the rewritten résumé once the preview stage is reached.
func (c *Controller) Resume() *model.ResumeData { return c.resume }

// JobAnalysis returns the last comparison result.
func (c *Controller) JobAnalysis() *model.JobAnalysis { return c.jobAnalysis }

func (c *Controller) Answers() []model.SkillAnswer { return c.answers }
func (c *Controller) JobDescription() string       { return c.jobDescription }

// Notice is non-nil while a rate limit notice is open.
func (c *Controller) Notice() *RateLimitNotice { return c.notice }

// DismissNotice closes the rate limit notice.
func (c *Controller) DismissNotice() { c.notice = nil }

// Err returns the last non rate limit failure, cleared by the next success.
func (c *Controller) Err() error { return c.err }

// Start leaves the landing stage.
func (c *Controller) Start() error {
	return c.fire(EventStart)
}

// SelectFile accepts doc after the file check and the local limit check. A
// rejected file or a denied check keeps the upload stage.
func (c *Controller) SelectFile(ctx context.Context, doc Document) error {
	if c.stage != StageUpload {
		return fmt.Errorf("%w: select file in %s", ErrInvalidTransition, c.stage)
	}
	if err := c.Uploads.Validate(doc.upload()); err != nil {
		c.err = err
		return err
	}
	if ok, remaining := c.Limiter.Check(); !ok {
		c.notice = &RateLimitNotice{RemainingSeconds: remaining}
		return &apperr.RateLimitedError{RemainingSeconds: remaining}
	}
	if err := c.fire(EventFileAccepted); err != nil {
		return err
	}
	c.doc = &doc
	c.err = nil
	if err := c.pace(ctx); err != nil {
		return c.rewind(StageUpload, err)
	}
	return c.fire(EventExtracted)
}

// SubmitJobDescription takes the general path when jobDescription is blank,
// otherwise compares against it.
func (c *Controller) SubmitJobDescription(ctx context.Context, jobDescription string) error {
	if c.stage != StageJobDescription {
		return fmt.Errorf("%w: submit job description in %s", ErrInvalidTransition, c.stage)
	}
	if c.doc == nil {
		return ErrNoDocument
	}
	c.jobDescription = strings.TrimSpace(jobDescription)

	if c.jobDescription == "" {
		if err := c.fire(EventSubmitGeneral); err != nil {
			return err
		}
		data, err := c.API.Rewrite(ctx, *c.doc)
		if err != nil {
			return c.rewind(StageJobDescription, err)
		}
		return c.finish(data)
	}

	if err := c.fire(EventSubmitJob); err != nil {
		return err
	}
	analysis, err := c.API.Compare(ctx, *c.doc, c.jobDescription)
	if err != nil {
		return c.rewind(StageJobDescription, err)
	}
	c.jobAnalysis = &analysis
	if len(analysis.MissingSkills) > 0 {
		return c.fire(EventMissingSkills)
	}
	if err := c.fire(EventNoMissingSkills); err != nil {
		return err
	}
	return c.rewriteForJob(ctx, []model.SkillAnswer{}, StageJobDescription)
}

// Questionnaire returns a questionnaire over the missing skills. Pass its
// answers to SubmitAnswers once onComplete fires.
func (c *Controller) Questionnaire(onComplete func([]model.SkillAnswer)) (*Questionnaire, error) {
	if c.stage != StageSkillsQuestionnaire || c.jobAnalysis == nil {
		return nil, fmt.Errorf("%w: questionnaire in %s", ErrInvalidTransition, c.stage)
	}
	return NewQuestionnaire(c.jobAnalysis.MissingSkills, onComplete), nil
}

// SubmitAnswers rewrites for the job with the questionnaire answers.
func (c *Controller) SubmitAnswers(ctx context.Context, answers []model.SkillAnswer) error {
	if err := c.fire(EventAnswersComplete); err != nil {
		return err
	}
	return c.rewriteForJob(ctx, answers, StageSkillsQuestionnaire)
}

// Retry repeats the call that last failed from the current stage.
func (c *Controller) Retry(ctx context.Context) error {
	switch c.stage {
	case StageSkillsQuestionnaire:
		return c.SubmitAnswers(ctx, c.answers)
	case StageJobDescription:
		return c.SubmitJobDescription(ctx, c.jobDescription)
	default:
		return fmt.Errorf("%w: retry in %s", ErrInvalidTransition, c.stage)
	}
}

// StartOver clears the session and returns to landing.
func (c *Controller) StartOver() {
	stage, _ := Transition(c.stage, EventStartOver)
	*c = Controller{
		API:          c.API,
		Limiter:      c.Limiter,
		Pace:         c.Pace,
		ExtractDelay: c.ExtractDelay,
		sessionID:    uuid.NewString(),
		stage:        stage,
	}
}

func (c *Controller) rewriteForJob(ctx context.Context, answers []model.SkillAnswer, issuer Stage) error {
	c.answers = answers
	data, err := c.API.RewriteForJob(ctx, *c.doc, c.jobDescription, answers)
	if err != nil {
		return c.rewind(issuer, err)
	}
	return c.finish(data)
}

func (c *Controller) finish(data model.ResumeData) error {
	if err := c.Limiter.Record(); err != nil {
		telemetry.Warn("flow.local_limit.record_failed", map[string]any{"session_id": c.sessionID, "err": err})
	}
	c.resume = &data
	c.err = nil
	return c.fire(EventRewritten)
}

// rewind returns to the stage that issued the failed call.
func (c *Controller) rewind(issuer Stage, err error) error {
	var limited *apperr.RateLimitedError
	if errors.As(err, &limited) {
		c.notice = &RateLimitNotice{RemainingSeconds: limited.RemainingSeconds}
	} else {
		c.err = err
	}
	telemetry.Info("flow.rewind", map[string]any{
		"session_id": c.sessionID,
		"from":       c.stage.String(),
		"to":         issuer.String(),
		"err":        err,
	})
	c.stage = issuer
	return err
}

func (c *Controller) fire(ev Event) error {
	next, err := Transition(c.stage, ev)
	if err != nil {
		return err
	}
	c.stage = next
	return nil
}

func (c *Controller) pace(ctx context.Context) error {
	if c.Pace == nil || c.ExtractDelay <= 0 {
		return nil
	}
	return c.Pace(ctx, c.ExtractDelay)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
