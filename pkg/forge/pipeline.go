package forge

import (
	"context"
	"io"
	"strings"

	"github.com/uismith/uismith/pkg/llm"
	"github.com/uismith/uismith/pkg/session"
	"github.com/uismith/uismith/pkg/streamtext"
)

// ProgressSink receives a pipeline's progress. Progress carries the
// stage's entire running total, not a delta; the Broadcaster turns totals
// into minimal wire deltas. A sink error stops the pipeline.
type ProgressSink interface {
	Progress(model string, stage Stage, total string) error
	ModelError(model string, err error) error
	ModelDone(model string) error
}

// Pipeline executes the ordered stages for one model. Each pipeline owns
// its filters and provider streams; nothing is shared across models.
type Pipeline struct {
	model   string
	gen     llm.Generator
	prompts *Prompts
	history []llm.Turn
	prior   *session.Artifact
	sink    ProgressSink
}

// NewPipeline creates a pipeline for one model. prior may be nil when the
// model has no existing code in this session.
func NewPipeline(model string, gen llm.Generator, prompts *Prompts, history []llm.Turn, prior *session.Artifact, sink ProgressSink) *Pipeline {
	return &Pipeline{
		model:   model,
		gen:     gen,
		prompts: prompts,
		history: history,
		prior:   prior,
		sink:    sink,
	}
}

// Run executes the stages in order and returns their outcomes. A failed
// stage is terminal: it is returned with status Failed together with the
// error, and the dependent stages are never started.
func (p *Pipeline) Run(ctx context.Context) ([]StageRun, error) {
	done := make(map[Stage]string, len(Stages))
	runs := make([]StageRun, 0, len(Stages))
	for _, stage := range Stages {
		run, err := p.runStage(ctx, stage, done)
		if err != nil {
			run.Status = StatusFailed
			runs = append(runs, run)
			return runs, err
		}
		done[stage] = run.Content
		runs = append(runs, run)
	}
	return runs, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, done map[Stage]string) (StageRun, error) {
	prior := p.priorFor(stage)
	run := StageRun{Stage: stage, Status: StatusNotStarted, Prior: prior}

	req := p.prompts.StageRequest(p.history, stage, done, prior)
	stream, err := p.gen.GenerateStream(ctx, p.model, req)
	if err != nil {
		return run, err
	}
	defer stream.Close()
	run.Status = StatusStreaming

	tags := streamtext.NewTagFilter()
	fence := streamtext.NewFenceExtractor()
	sentinel := newSentinelMatcher(p.prompts.Sentinel, prior != "")

	var total strings.Builder
	emit := func(content string) error {
		if content == "" {
			return nil
		}
		total.WriteString(content)
		return p.sink.Progress(p.model, stage, total.String())
	}

	for {
		frag, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return run, err
		}
		text, matched := sentinel.feed(tags.Feed(frag))
		if matched {
			// The model kept its prior code. Stop consuming; the
			// deferred Close cancels the provider call.
			run.Status = StatusReverted
			run.Content = prior
			return run, nil
		}
		if err := emit(fence.Feed(text)); err != nil {
			return run, err
		}
	}

	// End of stream: flush the filter chain in order.
	text, matched := sentinel.feed(tags.Finalize())
	if matched {
		run.Status = StatusReverted
		run.Content = prior
		return run, nil
	}
	text += sentinel.finish()
	if err := emit(fence.Feed(text) + fence.Finalize()); err != nil {
		return run, err
	}

	run.Status = StatusCompleted
	run.Content = total.String()
	return run, nil
}

func (p *Pipeline) priorFor(stage Stage) string {
	if p.prior == nil {
		return ""
	}
	switch stage {
	case StageMarkup:
		return p.prior.Markup
	case StageStyling:
		return p.prior.Styling
	case StageBehavior:
		return p.prior.Behavior
	default:
		return ""
	}
}
