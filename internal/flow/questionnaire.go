package flow

import (
	"errors"

	"resume-improver/resume/model"
)

const (
	// DefaultYears is preselected when the applicant confirms a skill.
	DefaultYears = 1
	// MinYears is the smallest accepted years-of-experience value.
	MinYears = 1
)

// QuickPicks are the one-tap years-of-experience values.
var QuickPicks = []int{1, 2, 3, 5, 7, 10}

var (
	ErrQuestionnaireDone = errors.New("questionnaire already complete")
	ErrNoPendingYears    = errors.New("no skill awaiting years of experience")
	ErrYearsPending      = errors.New("years of experience pending for current skill")
)

// Questionnaire asks about missing skills one at a time. A "no" answer
// records the skill immediately; a "yes" waits for years of experience.
// onComplete fires exactly once with every answer in skill order.
type Questionnaire struct {
	skills     []model.MissingSkill
	answers    []model.SkillAnswer
	index      int
	awaiting   bool
	years      int
	done       bool
	onComplete func([]model.SkillAnswer)
}

// NewQuestionnaire starts a questionnaire. With no skills, onComplete fires
// before NewQuestionnaire returns.
func NewQuestionnaire(skills []model.MissingSkill, onComplete func([]model.SkillAnswer)) *Questionnaire {
	q := &Questionnaire{
		skills:     skills,
		answers:    make([]model.SkillAnswer, 0, len(skills)),
		years:      DefaultYears,
		onComplete: onComplete,
	}
	if len(skills) == 0 {
		q.finish()
	}
	return q
}

// Current returns the skill being asked about.
func (q *Questionnaire) Current() (model.MissingSkill, bool) {
	if q.done {
		return model.MissingSkill{}, false
	}
	return q.skills[q.index], true
}

// Progress returns the 1-based question number and the total.
func (q *Questionnaire) Progress() (int, int) {
	if q.done {
		return len(q.skills), len(q.skills)
	}
	return q.index + 1, len(q.skills)
}

// AwaitingYears reports whether the current skill was confirmed and needs years.
func (q *Questionnaire) AwaitingYears() bool { return q.awaiting }

// Years returns the current years-of-experience selection.
func (q *Questionnaire) Years() int { return q.years }

// Done reports whether every skill has been answered.
func (q *Questionnaire) Done() bool { return q.done }

// Answers returns the answers recorded so far.
func (q *Questionnaire) Answers() []model.SkillAnswer {
	return append(make([]model.SkillAnswer, 0, len(q.answers)), q.answers...)
}

// Answer records whether the applicant has the current skill.
func (q *Questionnaire) Answer(hasSkill bool) error {
	if q.done {
		return ErrQuestionnaireDone
	}
	if q.awaiting {
		return ErrYearsPending
	}
	if !hasSkill {
		q.advance(model.No(q.skills[q.index].Name))
		return nil
	}
	q.awaiting = true
	return nil
}

// SetYears sets the years selection, clamped to MinYears.
func (q *Questionnaire) SetYears(years int) {
	if years < MinYears {
		years = MinYears
	}
	q.years = years
}

// Increment adjusts the years selection by delta.
func (q *Questionnaire) Increment(delta int) {
	q.SetYears(q.years + delta)
}

// SubmitYears records the confirmed skill with the current years selection.
func (q *Questionnaire) SubmitYears() error {
	if q.done {
		return ErrQuestionnaireDone
	}
	if !q.awaiting {
		return ErrNoPendingYears
	}
	q.advance(model.Yes(q.skills[q.index].Name, q.years))
	return nil
}

func (q *Questionnaire) advance(answer model.SkillAnswer) {
	q.answers = append(q.answers, answer)
	q.awaiting = false
	q.years = DefaultYears
	if q.index == len(q.skills)-1 {
		q.finish()
		return
	}
	q.index++
}

func (q *Questionnaire) finish() {
	if q.done {
		return
	}
	q.done = true
	if q.onComplete != nil {
		q.onComplete(q.Answers())
	}
}
