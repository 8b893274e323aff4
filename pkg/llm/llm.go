// Package llm provides a provider-neutral streaming interface to chat
// models. A Generator opens a lazy token stream for a conversation; the
// Stream yields raw text fragments as the provider produces them. Provider
// implementations exist for OpenAI-compatible APIs and Google Gemini.
//
// Model references are strings of the form "provider/model"; see the
// providers subpackage for routing references to registered generators.
package llm

import "context"

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Role identifies the author of a conversation turn.
type Role string

func (r Role) String() string { return string(r) }

// Turn is one conversation turn. Turns are immutable once sent.
type Turn struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// Request describes one generation call.
type Request struct {
	// System is the system instruction, may be empty.
	System string

	// Turns is the ordered conversation history ending with the user
	// turn being answered.
	Turns []Turn

	// Params overrides the generator's default sampling parameters.
	Params *ModelParams
}

// ModelParams are provider-neutral sampling parameters. Zero fields are
// left to the provider default.
type ModelParams struct {
	MaxTokens   int     `json:"max_tokens,omitzero" yaml:"max_tokens,omitzero"`
	Temperature float32 `json:"temperature,omitzero" yaml:"temperature,omitzero"`
	TopP        float32 `json:"top_p,omitzero" yaml:"top_p,omitzero"`
	TopK        float32 `json:"top_k,omitzero" yaml:"top_k,omitzero"`
}

// Stream is a lazy, finite, non-restartable sequence of raw text
// fragments. Next returns io.EOF after the final fragment. Close releases
// the underlying provider call; it is safe to call concurrently with Next
// and more than once.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Generator opens token streams against one configured provider model.
// The name argument is the route the caller used to reach this generator;
// most implementations ignore it.
type Generator interface {
	GenerateStream(ctx context.Context, name string, req *Request) (Stream, error)
}
