// Package trie implements a generic path trie used to route
// "provider/model" references to registered handlers. Patterns are
// slash-separated segments with two wildcard forms:
//   - "+" matches exactly one segment ("openai/+" matches "openai/gpt-4o")
//   - "#" matches all remaining segments and must come last ("openai/#")
//
// Exact segments win over "+" which wins over "#".
package trie

import (
	"errors"
	"strings"
)

// ErrInvalidPattern is returned for malformed patterns, e.g. segments
// after a "#" wildcard.
var ErrInvalidPattern = errors.New("trie: invalid pattern")

// Trie stores values of type T under slash-separated path patterns.
// The zero value is an empty trie ready for use.
type Trie[T any] struct {
	children map[string]*Trie[T]
	matchAny *Trie[T] // "+" child
	matchAll *Trie[T] // "#" child
	set      bool
	value    T
}

// Set stores a value under pattern via setFunc, which receives a pointer to
// the slot and whether a value was already present. This lets callers
// reject duplicate registrations.
func (t *Trie[T]) Set(pattern string, setFunc func(ptr *T, existed bool) error) error {
	if pattern == "" {
		if err := setFunc(&t.value, t.set); err != nil {
			return err
		}
		t.set = true
		return nil
	}

	var first, rest string
	if i := strings.IndexByte(pattern, '/'); i == -1 {
		first = pattern
	} else {
		first, rest = pattern[:i], pattern[i+1:]
	}

	switch first {
	case "+":
		if t.matchAny == nil {
			t.matchAny = &Trie[T]{}
		}
		return t.matchAny.Set(rest, setFunc)
	case "#":
		if rest != "" {
			return ErrInvalidPattern
		}
		if t.matchAll == nil {
			t.matchAll = &Trie[T]{}
		}
		return t.matchAll.Set("", setFunc)
	default:
		if t.children == nil {
			t.children = make(map[string]*Trie[T])
		}
		ch, ok := t.children[first]
		if !ok {
			ch = &Trie[T]{}
			t.children[first] = ch
		}
		return ch.Set(rest, setFunc)
	}
}

// SetValue stores a value under pattern, overwriting any existing value.
func (t *Trie[T]) SetValue(pattern string, value T) error {
	return t.Set(pattern, func(ptr *T, _ bool) error {
		*ptr = value
		return nil
	})
}

// Get returns the value whose pattern best matches path.
func (t *Trie[T]) Get(path string) (T, bool) {
	_, v, ok := t.match("", path)
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

// Match returns the matched pattern alongside the value.
func (t *Trie[T]) Match(path string) (string, T, bool) {
	pattern, v, ok := t.match("", path)
	if !ok {
		var zero T
		return "", zero, false
	}
	return pattern, *v, true
}

func (t *Trie[T]) match(matched, path string) (string, *T, bool) {
	if path == "" {
		if !t.set {
			return "", nil, false
		}
		return strings.TrimPrefix(matched, "/"), &t.value, true
	}
	var first, rest string
	if i := strings.IndexByte(path, '/'); i == -1 {
		first = path
	} else {
		first, rest = path[:i], path[i+1:]
	}
	if ch, ok := t.children[first]; ok {
		if p, v, ok := ch.match(matched+"/"+first, rest); ok {
			return p, v, true
		}
	}
	if t.matchAny != nil {
		if p, v, ok := t.matchAny.match(matched+"/+", rest); ok {
			return p, v, true
		}
	}
	if t.matchAll != nil {
		if p, v, ok := t.matchAll.match(matched+"/#", ""); ok {
			return p, v, true
		}
	}
	return "", nil, false
}

// Walk visits every stored value with its registration pattern.
func (t *Trie[T]) Walk(f func(pattern string, value T)) {
	t.walk(nil, f)
}

func (t *Trie[T]) walk(path []string, f func(string, T)) {
	if t.set {
		f(strings.Join(path, "/"), t.value)
	}
	for seg, ch := range t.children {
		ch.walk(append(path, seg), f)
	}
	if t.matchAny != nil {
		t.matchAny.walk(append(path, "+"), f)
	}
	if t.matchAll != nil {
		t.matchAll.walk(append(path, "#"), f)
	}
}

// Len returns the number of stored values.
func (t *Trie[T]) Len() int {
	n := 0
	t.Walk(func(string, T) { n++ })
	return n
}
