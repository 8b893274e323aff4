// Package session persists generated code artifacts between requests.
// A session holds one Artifact per model; the next generation request on
// the same session feeds each model its own prior artifact so it can
// revise instead of starting over.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/uismith/uismith/pkg/kv"
)

const keyspace = "session"

// Artifact is one model's current generated UI: the three content
// categories produced by the staged pipeline. Fields are only overwritten
// by the stage that owns them.
type Artifact struct {
	Markup   string `msgpack:"markup" json:"markup"`
	Styling  string `msgpack:"styling" json:"styling"`
	Behavior string `msgpack:"behavior" json:"behavior"`
}

// Empty reports whether no stage has produced content yet.
func (a *Artifact) Empty() bool {
	return a == nil || (a.Markup == "" && a.Styling == "" && a.Behavior == "")
}

// record is the stored representation of one (session, model) artifact.
type record struct {
	Artifact  Artifact  `msgpack:"artifact"`
	UpdatedAt time.Time `msgpack:"updated_at"`
}

// Store persists artifacts per (session, model) in a kv.Store.
type Store struct {
	kv kv.Store
}

// NewStore creates a Store on top of the given kv backend.
func NewStore(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get returns the artifact for (sessionID, modelRef), or nil if the model
// has not produced one in this session.
func (s *Store) Get(ctx context.Context, sessionID, modelRef string) (*Artifact, error) {
	raw, err := s.kv.Get(ctx, kv.Key{keyspace, sessionID, modelRef})
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get %s/%s: %w", sessionID, modelRef, err)
	}
	var rec record
	if err := msgpack.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session: decode %s/%s: %w", sessionID, modelRef, err)
	}
	return &rec.Artifact, nil
}

// Put stores the artifact for (sessionID, modelRef).
func (s *Store) Put(ctx context.Context, sessionID, modelRef string, a *Artifact) error {
	if a == nil {
		return errors.New("session: nil artifact")
	}
	raw, err := msgpack.Marshal(&record{Artifact: *a, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("session: encode %s/%s: %w", sessionID, modelRef, err)
	}
	if err := s.kv.Set(ctx, kv.Key{keyspace, sessionID, modelRef}, raw); err != nil {
		return fmt.Errorf("session: put %s/%s: %w", sessionID, modelRef, err)
	}
	return nil
}

// All returns every model's artifact in the session, keyed by model
// reference. An unknown session yields an empty map.
func (s *Store) All(ctx context.Context, sessionID string) (map[string]*Artifact, error) {
	out := make(map[string]*Artifact)
	for e, err := range s.kv.List(ctx, kv.Key{keyspace, sessionID}) {
		if err != nil {
			return nil, fmt.Errorf("session: list %s: %w", sessionID, err)
		}
		if len(e.Key) < 3 {
			continue
		}
		var rec record
		if err := msgpack.Unmarshal(e.Value, &rec); err != nil {
			return nil, fmt.Errorf("session: decode %s: %w", e.Key, err)
		}
		a := rec.Artifact
		// The model ref is everything after the session id. It may
		// itself contain the key separator (e.g. a ":latest" suffix),
		// in which case decoding split it into several segments.
		out[strings.Join(e.Key[2:], string(kv.Separator))] = &a
	}
	return out, nil
}

// Delete removes every artifact of the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	for e, err := range s.kv.List(ctx, kv.Key{keyspace, sessionID}) {
		if err != nil {
			return fmt.Errorf("session: list %s: %w", sessionID, err)
		}
		if err := s.kv.Delete(ctx, e.Key); err != nil {
			return fmt.Errorf("session: delete %s: %w", e.Key, err)
		}
	}
	return nil
}
