package llm

import (
	"io"

	"github.com/uismith/uismith/pkg/streambuf"
)

// StreamBuilder is the producer side of a Stream. A provider goroutine
// Adds fragments as they arrive and finishes with Done or Abort; the
// consumer reads the Stream returned by Stream.
type StreamBuilder struct {
	q *streambuf.Queue[string]
}

// NewStreamBuilder creates a StreamBuilder buffering up to size fragments.
func NewStreamBuilder(size int) *StreamBuilder {
	return &StreamBuilder{q: streambuf.New[string](size)}
}

// Add appends one fragment. It blocks while the consumer is behind by the
// buffer size, and fails once the stream is closed.
func (sb *StreamBuilder) Add(text string) error {
	return sb.q.Add(text)
}

// Done marks the end of the stream. Buffered fragments remain readable.
func (sb *StreamBuilder) Done() error {
	return sb.q.CloseWrite()
}

// Abort terminates the stream with err; the consumer's next read fails.
func (sb *StreamBuilder) Abort(err error) error {
	return sb.q.CloseWithError(err)
}

// Stream returns the consumer side.
func (sb *StreamBuilder) Stream() Stream {
	return (*builtStream)(sb)
}

type builtStream StreamBuilder

func (s *builtStream) Next() (string, error) {
	v, err := s.q.Next()
	if err == streambuf.ErrDone {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *builtStream) Close() error {
	return s.q.CloseWithError(nil)
}
