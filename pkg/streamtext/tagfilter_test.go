package streamtext

import (
	"strings"
	"testing"
)

// filterAll runs a complete string through a fresh TagFilter using the given
// chunk boundaries and returns the concatenated output.
func filterAll(t *testing.T, s string, cuts ...int) string {
	t.Helper()
	f := NewTagFilter()
	var out strings.Builder
	prev := 0
	for _, c := range cuts {
		if c < prev || c > len(s) {
			t.Fatalf("bad cut %d for input of length %d", c, len(s))
		}
		out.WriteString(f.Feed(s[prev:c]))
		prev = c
	}
	out.WriteString(f.Feed(s[prev:]))
	out.WriteString(f.Finalize())
	return out.String()
}

// stripSpans is the reference implementation: remove every well-formed
// <think>...</think> span from s in one pass.
func stripSpans(s string) string {
	var out strings.Builder
	for {
		i := strings.Index(s, DefaultOpenTag)
		if i < 0 {
			out.WriteString(s)
			return out.String()
		}
		out.WriteString(s[:i])
		s = s[i+len(DefaultOpenTag):]
		j := strings.Index(s, DefaultCloseTag)
		if j < 0 {
			// Unterminated span suppresses the remainder.
			return out.String()
		}
		s = s[j+len(DefaultCloseTag):]
	}
}

func TestTagFilter_SinglePass(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"span only", "<think>internal</think>", ""},
		{"span in middle", "a<think>x</think>b", "ab"},
		{"two spans", "a<think>x</think>b<think>y</think>c", "abc"},
		{"unterminated", "a<think>never closed", "a"},
		{"empty span", "a<think></think>b", "ab"},
		{"angle noise", "1 < 2 and 2 > 1", "1 < 2 and 2 > 1"},
		{"lone open angle at end", "tail<", "tail<"},
		{"partial tag never completed", "a<thinb", "a<thinb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterAll(t, tt.in); got != tt.want {
				t.Errorf("filter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTagFilter_ChunkingInvariance(t *testing.T) {
	inputs := []string{
		"plain text with no tags at all",
		"a<think>hidden</think>b",
		"<think>lead</think>tail",
		"head<think>trail",
		"x<think>a</think>y<think>b</think>z",
		"almost <thin and done",
		"ends with partial <th",
	}
	for _, in := range inputs {
		want := stripSpans(in)
		// Every single split point.
		for cut := 0; cut <= len(in); cut++ {
			if got := filterAll(t, in, cut); got != want {
				t.Errorf("input %q cut at %d: got %q, want %q", in, cut, got, want)
			}
		}
		// Byte-at-a-time.
		cuts := make([]int, len(in))
		for i := range cuts {
			cuts[i] = i
		}
		if got := filterAll(t, in, cuts...); got != want {
			t.Errorf("input %q byte-at-a-time: got %q, want %q", in, got, want)
		}
	}
}

func TestTagFilter_WithheldTailFlushedOnFinalize(t *testing.T) {
	f := NewTagFilter()
	got := f.Feed("abc<thi")
	if got != "abc" {
		t.Errorf("Feed released %q, want %q", got, "abc")
	}
	if tail := f.Finalize(); tail != "<thi" {
		t.Errorf("Finalize released %q, want %q", tail, "<thi")
	}
}

func TestTagFilter_UnterminatedSpanDiscardedOnFinalize(t *testing.T) {
	f := NewTagFilter()
	f.Feed("visible<think>secret ")
	f.Feed("still secret")
	if tail := f.Finalize(); tail != "" {
		t.Errorf("Finalize released %q, want empty", tail)
	}
}

func TestTagFilter_CustomDelims(t *testing.T) {
	f := NewTagFilterDelims("[[", "]]")
	var out strings.Builder
	out.WriteString(f.Feed("a["))
	out.WriteString(f.Feed("[hidden]"))
	out.WriteString(f.Feed("]b"))
	out.WriteString(f.Finalize())
	if got := out.String(); got != "ab" {
		t.Errorf("got %q, want %q", got, "ab")
	}
}
