package streamtext

import "strings"

// Default reasoning span delimiters.
const (
	DefaultOpenTag  = "<think>"
	DefaultCloseTag = "</think>"
)

type tagFilterState int

const (
	tagStateNormal tagFilterState = iota
	tagStateInSpan
)

// TagFilter removes delimited reasoning spans from a text stream. Text
// between the open and close tags, including the tags themselves, never
// reaches the output. A tag split across chunk boundaries is still
// recognized: the filter withholds at most len(tag)-1 trailing bytes that
// could be the start of a split tag and emits them once they are ruled out.
type TagFilter struct {
	open  string
	close string

	state   tagFilterState
	pending string // withheld tail, bounded by len(tag)-1
}

// NewTagFilter returns a TagFilter for the default <think> delimiters.
func NewTagFilter() *TagFilter {
	return NewTagFilterDelims(DefaultOpenTag, DefaultCloseTag)
}

// NewTagFilterDelims returns a TagFilter for custom delimiters.
// Both delimiters must be non-empty.
func NewTagFilterDelims(open, close string) *TagFilter {
	return &TagFilter{open: open, close: close}
}

// Feed consumes the next raw chunk and returns the clean text it releases.
// The returned string may be empty while the filter is inside a span or
// withholding a possible split delimiter.
func (f *TagFilter) Feed(chunk string) string {
	if chunk == "" {
		return ""
	}
	buf := f.pending + chunk
	f.pending = ""

	var out strings.Builder
	for buf != "" {
		switch f.state {
		case tagStateNormal:
			if i := strings.Index(buf, f.open); i >= 0 {
				out.WriteString(buf[:i])
				buf = buf[i+len(f.open):]
				f.state = tagStateInSpan
				continue
			}
			// No full open tag. Withhold a tail that is a prefix of the
			// open tag in case the tag spans the chunk boundary.
			keep := splitPrefixLen(buf, f.open)
			out.WriteString(buf[:len(buf)-keep])
			f.pending = buf[len(buf)-keep:]
			buf = ""
		case tagStateInSpan:
			if i := strings.Index(buf, f.close); i >= 0 {
				buf = buf[i+len(f.close):]
				f.state = tagStateNormal
				continue
			}
			// Span content is discarded. Retain a tail that could be the
			// start of the close tag.
			keep := splitPrefixLen(buf, f.close)
			f.pending = buf[len(buf)-keep:]
			buf = ""
		}
	}
	return out.String()
}

// Finalize flushes the filter at end of stream and returns any trailing
// text. A withheld tail in normal state was never confirmed as a delimiter
// and is released verbatim. An unterminated span is discarded.
func (f *TagFilter) Finalize() string {
	tail := f.pending
	f.pending = ""
	if f.state == tagStateInSpan {
		return ""
	}
	return tail
}

// splitPrefixLen returns the length of the longest suffix of s that is a
// strict prefix of tag. The result is bounded by len(tag)-1.
func splitPrefixLen(s, tag string) int {
	max := len(tag) - 1
	if max > len(s) {
		max = len(s)
	}
	for n := max; n > 0; n-- {
		if strings.HasPrefix(tag, s[len(s)-n:]) {
			return n
		}
	}
	return 0
}
