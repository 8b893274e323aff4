package forge

import "strings"

// NoChangeSentinel is the literal a model emits to keep its prior code.
const NoChangeSentinel = "[NO CHANGE]"

type sentinelState int

const (
	sentinelDisabled sentinelState = iota // no prior code, pass everything through
	sentinelMatching                      // accumulation is a prefix of the sentinel
	sentinelMatched                       // sentinel seen in full
	sentinelDiverged                      // accumulation ruled out, streaming normally
)

// sentinelMatcher watches the head of a stage's output for the no-change
// sentinel. While the (whitespace-trimmed) accumulation is a strict prefix
// of the sentinel, output is withheld. On an exact match the stage is
// reverted and nothing is released; on divergence everything withheld is
// released and the matcher becomes a pass-through.
//
// Input is examined byte by byte so that an exact match is recognized the
// moment the sentinel's last byte arrives, independent of how fragments
// were split.
type sentinelMatcher struct {
	sentinel string
	state    sentinelState
	held     strings.Builder
}

// newSentinelMatcher returns a matcher. With active=false (no prior code)
// it passes all input straight through.
func newSentinelMatcher(sentinel string, active bool) *sentinelMatcher {
	st := sentinelDisabled
	if active {
		st = sentinelMatching
	}
	return &sentinelMatcher{sentinel: sentinel, state: st}
}

// feed consumes the next fragment and returns the text released
// downstream and whether the sentinel has fully matched. After a match
// all further input is discarded.
func (m *sentinelMatcher) feed(frag string) (out string, matched bool) {
	switch m.state {
	case sentinelDisabled, sentinelDiverged:
		return frag, false
	case sentinelMatched:
		return "", true
	}

	for i := 0; i < len(frag); i++ {
		m.held.WriteByte(frag[i])
		acc := strings.TrimLeft(m.held.String(), " \t\r\n")
		if acc == "" {
			continue // leading whitespace, keep waiting
		}
		if acc == m.sentinel {
			m.state = sentinelMatched
			return "", true
		}
		if !strings.HasPrefix(m.sentinel, acc) {
			m.state = sentinelDiverged
			released := m.held.String() + frag[i+1:]
			m.held.Reset()
			return released, false
		}
	}
	return "", false
}

// finish releases anything still withheld at end of stream. A strict
// prefix that never completed is ordinary content.
func (m *sentinelMatcher) finish() string {
	if m.state == sentinelMatched {
		return ""
	}
	out := m.held.String()
	m.held.Reset()
	return out
}
