// Package providers routes "provider/model" references to registered
// llm.Generator implementations. Routes are trie patterns, so a whole
// provider can be registered at once ("openai/#") next to exact model
// routes that take precedence.
package providers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/uismith/uismith/pkg/llm"
	"github.com/uismith/uismith/pkg/trie"
)

var (
	// ErrMalformedRef is returned for model references without a
	// "provider/model" separator.
	ErrMalformedRef = errors.New("providers: malformed model reference")

	// ErrNotRegistered is returned when no route matches a reference.
	ErrNotRegistered = errors.New("providers: no generator registered")
)

var _ llm.Generator = (*Mux)(nil)

// DefaultMux is the process-wide multiplexer used by the package-level
// functions.
var DefaultMux = NewMux()

// Handle registers a generator on the default mux.
func Handle(pattern string, gen llm.Generator) error {
	return DefaultMux.Handle(pattern, gen)
}

// GenerateStream opens a stream through the default mux.
func GenerateStream(ctx context.Context, ref string, req *llm.Request) (llm.Stream, error) {
	return DefaultMux.GenerateStream(ctx, ref, req)
}

// Mux routes model references to registered generators.
type Mux struct {
	routes trie.Trie[llm.Generator]
}

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{}
}

// Handle registers a generator under the given route pattern. Registering
// the same pattern twice is an error.
func (m *Mux) Handle(pattern string, gen llm.Generator) error {
	if gen == nil {
		return errors.New("providers: nil generator")
	}
	return m.routes.Set(pattern, func(ptr *llm.Generator, existed bool) error {
		if existed {
			return fmt.Errorf("providers: route %s already registered", pattern)
		}
		*ptr = gen
		return nil
	})
}

// GenerateStream validates ref, looks up its generator, and opens a stream.
// The reference must contain at least one "/" separating provider and
// model; validation and lookup fail before any provider call is made.
func (m *Mux) GenerateStream(ctx context.Context, ref string, req *llm.Request) (llm.Stream, error) {
	gen, err := m.lookup(ref)
	if err != nil {
		return nil, err
	}
	return gen.GenerateStream(ctx, ref, req)
}

func (m *Mux) lookup(ref string) (llm.Generator, error) {
	if !strings.Contains(ref, "/") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRef, ref)
	}
	gen, ok := m.routes.Get(ref)
	if !ok || gen == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, ref)
	}
	return gen, nil
}

// Resolves reports whether ref is well-formed and routed.
func (m *Mux) Resolves(ref string) error {
	_, err := m.lookup(ref)
	return err
}

// Routes returns all registered route patterns, sorted.
func (m *Mux) Routes() []string {
	var out []string
	m.routes.Walk(func(pattern string, _ llm.Generator) {
		out = append(out, pattern)
	})
	sort.Strings(out)
	return out
}
