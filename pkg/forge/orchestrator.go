package forge

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/uismith/uismith/pkg/llm"
	"github.com/uismith/uismith/pkg/session"
)

// eventBufferSize bounds how far pipelines can run ahead of a slow
// consumer before Progress blocks.
const eventBufferSize = 64

// Orchestrator fans a generation request out to one pipeline per model
// and merges their progress onto a single event stream.
type Orchestrator struct {
	// Gen routes model references to providers, usually a providers.Mux.
	Gen llm.Generator

	// Prompts configures the stage requests. Nil means DefaultPrompts.
	Prompts *Prompts

	// Sessions persists per-model artifacts between requests. Nil
	// disables persistence.
	Sessions *session.Store
}

// Request describes one generation round.
type Request struct {
	// SessionID keys the artifact store. Empty disables persistence
	// for this request even when the orchestrator has a session store.
	SessionID string

	// Models lists the provider/model references to run. Duplicates
	// are collapsed.
	Models []string

	// History is the conversation so far, ending with the user turn
	// that triggered this round.
	History []llm.Turn

	// Prior overrides the session store's artifact for a model. Used
	// by stateless callers that track artifacts themselves.
	Prior map[string]*session.Artifact
}

// Generate starts one pipeline per requested model and returns the merged
// event stream. It returns once the pipelines are started; the stream
// ends with a done event after every model has completed or failed.
// Closing the stream cancels the pipelines still running.
func (o *Orchestrator) Generate(ctx context.Context, req *Request) (*EventStream, error) {
	if o.Gen == nil {
		return nil, errors.New("forge: orchestrator has no generator")
	}
	models := dedup(req.Models)
	if len(models) == 0 {
		return nil, errors.New("forge: no models requested")
	}
	prompts := o.Prompts
	if prompts == nil {
		prompts = DefaultPrompts()
	}

	b := NewBroadcaster(eventBufferSize)
	var wg sync.WaitGroup
	for _, model := range models {
		prior := req.Prior[model]
		if prior == nil {
			prior = o.load(ctx, req.SessionID, model)
		}
		wg.Add(1)
		go func(model string, prior *session.Artifact) {
			defer wg.Done()
			p := NewPipeline(model, o.Gen, prompts, req.History, prior, b)
			runs, err := p.Run(ctx)
			if err != nil {
				slog.Warn("forge: pipeline failed", "model", model, "error", err)
				b.ModelError(model, err)
				return
			}
			o.store(ctx, req.SessionID, model, artifactFromRuns(runs))
			b.ModelDone(model)
		}(model, prior)
	}
	go func() {
		wg.Wait()
		b.Finish()
	}()
	return b.Events(), nil
}

func (o *Orchestrator) load(ctx context.Context, sessionID, model string) *session.Artifact {
	if o.Sessions == nil || sessionID == "" {
		return nil
	}
	art, err := o.Sessions.Get(ctx, sessionID, model)
	if err != nil {
		slog.Warn("forge: load artifact", "session", sessionID, "model", model, "error", err)
		return nil
	}
	return art
}

func (o *Orchestrator) store(ctx context.Context, sessionID, model string, art *session.Artifact) {
	if o.Sessions == nil || sessionID == "" {
		return
	}
	if err := o.Sessions.Put(ctx, sessionID, model, art); err != nil {
		slog.Error("forge: store artifact", "session", sessionID, "model", model, "error", err)
	}
}

func artifactFromRuns(runs []StageRun) *session.Artifact {
	art := &session.Artifact{}
	for _, run := range runs {
		switch run.Stage {
		case StageMarkup:
			art.Markup = run.Content
		case StageStyling:
			art.Styling = run.Content
		case StageBehavior:
			art.Behavior = run.Content
		}
	}
	return art
}

func dedup(models []string) []string {
	seen := make(map[string]bool, len(models))
	out := models[:0:0]
	for _, m := range models {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
