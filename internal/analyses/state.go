package analyses

import (
	"errors"
	"fmt"
	"strings"

	"resume-improver/internal/shared/apperr"
)

// State is a step in the handling of one request.
type State string

const (
	StateReceived             State = "received"
	StateValidated            State = "validated"
	StateExtracted            State = "extracted"
	StateCompared             State = "compared"
	StateAwaitingSkillAnswers State = "awaiting-skill-answers"
	StateAIProcessing         State = "ai-processing"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
)

// ErrIllegalTransition is returned when a step is taken out of order.
var ErrIllegalTransition = errors.New("illegal state transition")

// failed is reachable from every non-terminal state and is not listed here.
var transitions = map[State][]State{
	StateReceived:             {StateValidated},
	StateValidated:            {StateExtracted},
	StateExtracted:            {StateCompared, StateAwaitingSkillAnswers, StateAIProcessing},
	StateCompared:             {StateAwaitingSkillAnswers, StateCompleted},
	StateAwaitingSkillAnswers: {StateAIProcessing, StateCompleted},
	StateAIProcessing:         {StateCompleted},
}

// Trail records the states a request passed through. A nil Trail ignores
// every call.
type Trail struct {
	states []State
	cause  error
}

// NewTrail starts a trail in StateReceived.
func NewTrail() *Trail {
	return &Trail{states: []State{StateReceived}}
}

// Current returns the latest state.
func (t *Trail) Current() State {
	if t == nil || len(t.states) == 0 {
		return StateReceived
	}
	return t.states[len(t.states)-1]
}

// Advance moves to next if the transition table allows it.
func (t *Trail) Advance(next State) error {
	if t == nil {
		return nil
	}
	from := t.Current()
	for _, allowed := range transitions[from] {
		if allowed == next {
			t.states = append(t.states, next)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, next)
}

// Fail moves to StateFailed and keeps err as the cause. Failing a finished
// trail is a no-op.
func (t *Trail) Fail(err error) {
	if t == nil || t.Terminal() {
		return
	}
	t.states = append(t.states, StateFailed)
	t.cause = err
}

// Terminal reports whether the trail has completed or failed.
func (t *Trail) Terminal() bool {
	s := t.Current()
	return s == StateCompleted || s == StateFailed
}

// Cause returns the error that failed the trail.
func (t *Trail) Cause() error {
	if t == nil {
		return nil
	}
	return t.cause
}

// FailedKind names the kind of error that failed the trail, or "" when it did not fail.
func (t *Trail) FailedKind() string {
	if t == nil || t.cause == nil {
		return ""
	}
	for _, kind := range []error{
		apperr.ErrValidation,
		apperr.ErrRateLimited,
		apperr.ErrExtractionFailed,
		apperr.ErrInsufficientText,
		apperr.ErrAIResponse,
		apperr.ErrTimeout,
	} {
		if errors.Is(t.cause, kind) {
			return kind.Error()
		}
	}
	return "internal"
}

// States returns a copy of the visited states.
func (t *Trail) States() []State {
	if t == nil {
		return nil
	}
	return append([]State(nil), t.states...)
}

// String joins the states with ">" and appends the failure kind.
func (t *Trail) String() string {
	if t == nil {
		return ""
	}
	parts := make([]string, len(t.states))
	for i, s := range t.states {
		parts[i] = string(s)
	}
	out := strings.Join(parts, ">")
	if kind := t.FailedKind(); kind != "" {
		out += "(" + kind + ")"
	}
	return out
}
