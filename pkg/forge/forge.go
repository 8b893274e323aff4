// Package forge runs staged UI generation across language models. For
// each selected model it executes three dependent stages in order —
// markup, then styling, then behavior — chaining each completed stage
// into the next stage's prompt. Model pipelines run concurrently and
// share nothing; their progress is multiplexed by a Broadcaster into a
// single ordered sequence of wire events carrying minimal deltas.
package forge

// Stage is one of the three generated content categories.
type Stage string

const (
	StageMarkup   Stage = "markup"
	StageStyling  Stage = "styling"
	StageBehavior Stage = "behavior"
)

// Stages lists the stages in execution order. Each stage's prompt embeds
// the final content of the stages before it, so the order is fixed.
var Stages = [3]Stage{StageMarkup, StageStyling, StageBehavior}

func (s Stage) String() string { return string(s) }

// Status is the lifecycle state of one stage run.
type Status int

const (
	StatusNotStarted Status = iota
	StatusStreaming
	StatusCompleted
	StatusReverted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusStreaming:
		return "streaming"
	case StatusCompleted:
		return "completed"
	case StatusReverted:
		return "reverted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StageRun is the outcome of one (model, stage) execution. For a
// Completed run Content is the accumulated model output; for a Reverted
// run it is the prior code the model declined to change.
type StageRun struct {
	Stage   Stage
	Status  Status
	Content string
	Prior   string // existing code offered to the model, if any
}
