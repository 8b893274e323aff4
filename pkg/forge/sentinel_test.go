package forge

import "testing"

func feedAll(m *sentinelMatcher, frags ...string) (out string, matched bool) {
	for _, f := range frags {
		got, ok := m.feed(f)
		out += got
		if ok {
			return out, true
		}
	}
	return out, false
}

func TestSentinelExactMatch(t *testing.T) {
	cases := [][]string{
		{"[NO CHANGE]"},
		{"[NO ", "CHANGE]"},
		{"[", "N", "O", " ", "C", "H", "A", "N", "G", "E", "]"},
		{"  \n[NO CHANGE]"}, // leading whitespace is ignored
	}
	for _, frags := range cases {
		m := newSentinelMatcher(NoChangeSentinel, true)
		out, matched := feedAll(m, frags...)
		if !matched {
			t.Errorf("feed(%q): no match", frags)
		}
		if out != "" {
			t.Errorf("feed(%q): released %q, want nothing", frags, out)
		}
	}
}

func TestSentinelMatchWithTrailingText(t *testing.T) {
	// The match fires the moment the final byte arrives; trailing
	// content is discarded.
	m := newSentinelMatcher(NoChangeSentinel, true)
	out, matched := feedAll(m, "[NO CHANGE] as requested")
	if !matched {
		t.Fatal("no match")
	}
	if out != "" {
		t.Errorf("released %q, want nothing", out)
	}
	if got, _ := m.feed("more"); got != "" {
		t.Errorf("post-match feed released %q", got)
	}
}

func TestSentinelDivergence(t *testing.T) {
	m := newSentinelMatcher(NoChangeSentinel, true)
	out, matched := feedAll(m, "[NO ", "CHAOS] here")
	if matched {
		t.Fatal("unexpected match")
	}
	if want := "[NO CHAOS] here"; out != want {
		t.Errorf("released %q, want %q", out, want)
	}
	// Once diverged the matcher is a pass-through.
	if got, _ := m.feed("[NO CHANGE]"); got != "[NO CHANGE]" {
		t.Errorf("diverged feed released %q", got)
	}
}

func TestSentinelUnfinishedPrefixFlushedAtEnd(t *testing.T) {
	m := newSentinelMatcher(NoChangeSentinel, true)
	out, matched := feedAll(m, "[NO CHA")
	if matched || out != "" {
		t.Fatalf("feed = %q, %v", out, matched)
	}
	if got := m.finish(); got != "[NO CHA" {
		t.Errorf("finish released %q, want %q", got, "[NO CHA")
	}
}

func TestSentinelInactive(t *testing.T) {
	m := newSentinelMatcher(NoChangeSentinel, false)
	out, matched := feedAll(m, NoChangeSentinel)
	if matched {
		t.Fatal("inactive matcher matched")
	}
	if out != NoChangeSentinel {
		t.Errorf("released %q, want %q", out, NoChangeSentinel)
	}
}
