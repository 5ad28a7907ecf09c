// Package flow drives one résumé session from upload to preview against the
// HTTP API. It is the terminal counterpart of the web client's screen flow.
package flow

import (
	"errors"
	"fmt"
)

// Stage is one mutually exclusive step of a session.
type Stage int

const (
	StageLanding Stage = iota
	StageUpload
	StageExtracting
	StageJobDescription
	StageComparing
	StageSkillsQuestionnaire
	StageRewriting
	StagePreview
)

var stageNames = map[Stage]string{
	StageLanding:             "landing",
	StageUpload:              "upload",
	StageExtracting:          "extracting",
	StageJobDescription:      "job-description",
	StageComparing:           "comparing",
	StageSkillsQuestionnaire: "skills-questionnaire",
	StageRewriting:           "rewriting",
	StagePreview:             "preview",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Busy reports whether the stage waits on extraction or an AI call.
func (s Stage) Busy() bool {
	return s == StageExtracting || s == StageComparing || s == StageRewriting
}

// Event moves a session between stages.
type Event int

const (
	EventStart Event = iota
	EventFileAccepted
	EventExtracted
	EventSubmitGeneral
	EventSubmitJob
	EventMissingSkills
	EventNoMissingSkills
	EventAnswersComplete
	EventRewritten
	EventStartOver
)

var eventNames = map[Event]string{
	EventStart:           "start",
	EventFileAccepted:    "file-accepted",
	EventExtracted:       "extracted",
	EventSubmitGeneral:   "submit-general",
	EventSubmitJob:       "submit-job",
	EventMissingSkills:   "missing-skills",
	EventNoMissingSkills: "no-missing-skills",
	EventAnswersComplete: "answers-complete",
	EventRewritten:       "rewritten",
	EventStartOver:       "start-over",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ErrInvalidTransition is returned for an event the current stage does not accept.
var ErrInvalidTransition = errors.New("invalid flow transition")

type edge struct {
	from  Stage
	event Event
}

var transitions = map[edge]Stage{
	{StageLanding, EventStart}:                       StageUpload,
	{StageUpload, EventFileAccepted}:                 StageExtracting,
	{StageExtracting, EventExtracted}:                StageJobDescription,
	{StageJobDescription, EventSubmitGeneral}:        StageRewriting,
	{StageJobDescription, EventSubmitJob}:            StageComparing,
	{StageComparing, EventMissingSkills}:             StageSkillsQuestionnaire,
	{StageComparing, EventNoMissingSkills}:           StageRewriting,
	{StageSkillsQuestionnaire, EventAnswersComplete}: StageRewriting,
	{StageRewriting, EventRewritten}:                 StagePreview,
}

// Transition returns the stage reached from s on ev. StartOver is accepted
// from every stage.
func Transition(s Stage, ev Event) (Stage, error) {
	if ev == EventStartOver {
		return StageLanding, nil
	}
	next, ok := transitions[edge{s, ev}]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, s, ev)
	}
	return next, nil
}
