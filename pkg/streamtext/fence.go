package streamtext

import "strings"

const fenceMarker = "```"

type fencePhase int

const (
	fenceSeekOpen fencePhase = iota
	fenceLangTag
	fenceLeadSpace
	fenceInBlock
	fenceComplete
)

// FenceExtractor pulls the content of the first fenced code block out of a
// text stream. Everything before the opening marker, the optional language
// tag with its trailing whitespace, the fence markers themselves, and
// everything after the closing marker are dropped. Only the first block is
// extracted; later blocks are ignored.
type FenceExtractor struct {
	phase   fencePhase
	lang    strings.Builder
	pending string // bounded by len(fenceMarker)-1
}

// NewFenceExtractor returns a FenceExtractor in its initial seeking phase.
func NewFenceExtractor() *FenceExtractor {
	return &FenceExtractor{}
}

// Feed consumes the next chunk and returns any block content it releases.
func (f *FenceExtractor) Feed(chunk string) string {
	if chunk == "" || f.phase == fenceComplete {
		return ""
	}
	buf := f.pending + chunk
	f.pending = ""

	var out strings.Builder
	for buf != "" && f.phase != fenceComplete {
		switch f.phase {
		case fenceSeekOpen:
			if i := strings.Index(buf, fenceMarker); i >= 0 {
				buf = buf[i+len(fenceMarker):]
				f.phase = fenceLangTag
				continue
			}
			// Drop the prefix but keep a tail that could be the start of
			// a split marker.
			keep := splitPrefixLen(buf, fenceMarker)
			f.pending = buf[len(buf)-keep:]
			buf = ""
		case fenceLangTag:
			n := 0
			for n < len(buf) && isLangByte(buf[n]) {
				n++
			}
			f.lang.WriteString(buf[:n])
			buf = buf[n:]
			if buf != "" {
				f.phase = fenceLeadSpace
			}
		case fenceLeadSpace:
			n := 0
			for n < len(buf) && isSpaceByte(buf[n]) {
				n++
			}
			buf = buf[n:]
			if buf != "" {
				f.phase = fenceInBlock
			}
		case fenceInBlock:
			if i := strings.Index(buf, fenceMarker); i >= 0 {
				out.WriteString(buf[:i])
				buf = ""
				f.phase = fenceComplete
				continue
			}
			keep := splitPrefixLen(buf, fenceMarker)
			out.WriteString(buf[:len(buf)-keep])
			f.pending = buf[len(buf)-keep:]
			buf = ""
		}
	}
	return out.String()
}

// Complete reports whether the closing marker has been seen (or the stream
// was finalized with the block still open).
func (f *FenceExtractor) Complete() bool {
	return f.phase == fenceComplete
}

// Lang returns the language tag of the opening marker, if any. It is only
// meaningful once the extractor has left the seeking phase.
func (f *FenceExtractor) Lang() string {
	return f.lang.String()
}

// Finalize flushes the extractor at end of stream. An unterminated block is
// treated as complete and its retained tail is released as content.
func (f *FenceExtractor) Finalize() string {
	tail := f.pending
	f.pending = ""
	if f.phase == fenceInBlock {
		f.phase = fenceComplete
		return tail
	}
	f.phase = fenceComplete
	return ""
}

// isLangByte reports whether b may appear in a fence language tag
// (e.g. "html", "c++", "objective-c").
func isLangByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '+' || b == '#' || b == '-' || b == '_' || b == '.':
		return true
	}
	return false
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
