package kv

import (
	"context"
	"errors"
	"testing"
)

// storeTest exercises the Store contract against any implementation.
func storeTest(t *testing.T, s Store) {
	ctx := context.Background()

	if _, err := s.Get(ctx, Key{"absent"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get absent = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, Key{"session", "a", "m1"}, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, Key{"session", "a", "m2"}, []byte("two")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, Key{"session", "ab", "m1"}, []byte("other")); err != nil {
		t.Fatal(err)
	}

	v, err := s.Get(ctx, Key{"session", "a", "m1"})
	if err != nil {
		t.Fatal(err)
	}
	if string(v) != "one" {
		t.Errorf("Get = %q, want %q", v, "one")
	}

	// Overwrite.
	if err := s.Set(ctx, Key{"session", "a", "m1"}, []byte("uno")); err != nil {
		t.Fatal(err)
	}
	v, _ = s.Get(ctx, Key{"session", "a", "m1"})
	if string(v) != "uno" {
		t.Errorf("Get after overwrite = %q, want %q", v, "uno")
	}

	// Prefix list must not leak the "session:ab" sibling.
	var listed []string
	for e, err := range s.List(ctx, Key{"session", "a"}) {
		if err != nil {
			t.Fatal(err)
		}
		listed = append(listed, e.Key.String()+"="+string(e.Value))
	}
	want := []string{"session:a:m1=uno", "session:a:m2=two"}
	if len(listed) != len(want) {
		t.Fatalf("List = %v, want %v", listed, want)
	}
	for i := range want {
		if listed[i] != want[i] {
			t.Errorf("List = %v, want %v", listed, want)
			break
		}
	}

	if err := s.Delete(ctx, Key{"session", "a", "m1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, Key{"session", "a", "m1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted = %v, want ErrNotFound", err)
	}
	// Deleting again is fine.
	if err := s.Delete(ctx, Key{"session", "a", "m1"}); err != nil {
		t.Errorf("Delete absent = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	storeTest(t, s)
}

func TestBadgerStore(t *testing.T) {
	s, err := NewBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	storeTest(t, s)
}

func TestBadgerRequiresDir(t *testing.T) {
	if _, err := NewBadger(BadgerOptions{}); err == nil {
		t.Error("NewBadger without Dir succeeded, want error")
	}
}

func TestKeyString(t *testing.T) {
	k := Key{"session", "abc", "openai/gpt-4o"}
	if got := k.String(); got != "session:abc:openai/gpt-4o" {
		t.Errorf("String() = %q", got)
	}
}
