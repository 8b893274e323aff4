// Package kv provides a small key-value store interface with hierarchical
// keys, backed by BadgerDB for persistence or an in-memory map for tests.
// Keys are string slices (e.g. ["session", id, model]) encoded with a ':'
// separator; segments must not contain the separator.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Separator joins key segments in the encoded representation.
const Separator byte = ':'

// Key is a hierarchical key as a slice of segments.
type Key []string

// String returns the encoded form, e.g. "session:abc:openai/gpt-4o".
func (k Key) String() string {
	return strings.Join(k, string(Separator))
}

func (k Key) encode() []byte {
	return []byte(k.String())
}

func decodeKey(b []byte) Key {
	return Key(strings.Split(string(b), string(Separator)))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is a key-value store with prefix listing.
type Store interface {
	// Get retrieves the value for key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a value, overwriting any existing one.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// List iterates entries whose key has the given prefix, in
	// lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close releases store resources.
	Close() error
}

// listPrefix returns the encoded prefix including a trailing separator, so
// prefix ["a","b"] does not match key ["a","bc"]. An empty prefix matches
// everything.
func listPrefix(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(prefix.encode(), Separator)
}
