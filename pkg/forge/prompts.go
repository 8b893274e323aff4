package forge

import (
	"fmt"
	"strings"

	"github.com/uismith/uismith/pkg/llm"
)

// DefaultSystemPrompt frames every stage call.
const DefaultSystemPrompt = "You are an expert front-end developer. " +
	"You produce clean, self-contained code for exactly one content " +
	"category at a time, always inside a single fenced code block. " +
	"Any reasoning you need goes inside <think></think> tags and is " +
	"never shown to the user."

// stageSpec describes how one stage is asked for.
type stageSpec struct {
	category string // human name of the content category
	lang     string // fence language tag
}

var stageSpecs = map[Stage]stageSpec{
	StageMarkup:   {category: "HTML markup", lang: "html"},
	StageStyling:  {category: "CSS styles", lang: "css"},
	StageBehavior: {category: "JavaScript behavior", lang: "js"},
}

// Prompts builds per-stage requests. It is immutable after construction
// and shared by every pipeline of a request; construct one at startup and
// pass it by reference.
type Prompts struct {
	// System is the system instruction for every stage call.
	System string

	// Sentinel is the no-change marker offered to models that received
	// prior code.
	Sentinel string

	// Params are optional sampling overrides applied to every stage call.
	Params *llm.ModelParams
}

// DefaultPrompts returns the stock prompt configuration.
func DefaultPrompts() *Prompts {
	return &Prompts{
		System:   DefaultSystemPrompt,
		Sentinel: NoChangeSentinel,
	}
}

// StageRequest assembles the provider request for one stage. history is
// the conversation so far; done holds the final content of already
// completed stages for context chaining; prior is the model's existing
// code for this stage ("" if none).
func (p *Prompts) StageRequest(history []llm.Turn, stage Stage, done map[Stage]string, prior string) *llm.Request {
	spec := stageSpecs[stage]

	var b strings.Builder
	fmt.Fprintf(&b, "Write the %s for the interface described above. ", spec.category)
	fmt.Fprintf(&b, "Respond with a single fenced code block (```%s) containing only the %s.",
		spec.lang, spec.category)

	switch stage {
	case StageStyling:
		writeContext(&b, "The markup to style is:", "html", done[StageMarkup])
	case StageBehavior:
		writeContext(&b, "The markup to wire up is:", "html", done[StageMarkup])
		writeContext(&b, "Its styles are:", "css", done[StageStyling])
	}

	if prior != "" {
		writeContext(&b, fmt.Sprintf("The current %s is:", spec.category), spec.lang, prior)
		fmt.Fprintf(&b, "\n\nIf the current %s already satisfies the request, respond with "+
			"exactly %s and nothing else. Otherwise respond with the full replacement.",
			spec.category, p.Sentinel)
	}

	return &llm.Request{
		System: p.System,
		Turns:  appendInstruction(history, b.String()),
		Params: p.Params,
	}
}

func writeContext(b *strings.Builder, label, lang, content string) {
	if content == "" {
		return
	}
	fmt.Fprintf(b, "\n\n%s\n```%s\n%s\n```", label, lang, content)
}

// appendInstruction attaches the stage instruction to the trailing user
// turn, creating one if the history ends with an assistant turn. The
// input history is never mutated.
func appendInstruction(history []llm.Turn, instruction string) []llm.Turn {
	turns := make([]llm.Turn, len(history))
	copy(turns, history)
	if n := len(turns); n > 0 && turns[n-1].Role == llm.RoleUser {
		turns[n-1].Content = turns[n-1].Content + "\n\n" + instruction
		return turns
	}
	return append(turns, llm.Turn{Role: llm.RoleUser, Content: instruction})
}
