package forge

import (
	"io"

	"github.com/uismith/uismith/pkg/streambuf"
)

// EventType discriminates wire events.
type EventType string

const (
	// EventChunk carries a wrapped content delta for one model's current
	// stage.
	EventChunk EventType = "chunk"

	// EventError reports a model-scoped failure. Other models continue.
	EventError EventType = "error"

	// EventModelDone marks one model's pipeline as exhausted.
	EventModelDone EventType = "model_done"

	// EventDone terminates the whole multiplexed response. It is sent
	// exactly once, regardless of individual model outcomes.
	EventDone EventType = "done"
)

// Event is one record of the produced transport stream. Events for
// different models interleave; events for one model are ordered.
type Event struct {
	Type  EventType `json:"type"`
	Model string    `json:"model,omitempty"`
	Stage Stage     `json:"stage,omitempty"`
	Delta string    `json:"delta,omitempty"`
	Error string    `json:"error,omitempty"`
}

// EventStream is the consumer side of a generation. Next returns io.EOF
// after the terminal EventDone. Close abandons the generation; pipelines
// stop as their next emission fails.
type EventStream struct {
	q *streambuf.Queue[Event]
}

func (s *EventStream) Next() (Event, error) {
	ev, err := s.q.Next()
	if err == streambuf.ErrDone {
		return Event{}, io.EOF
	}
	return ev, err
}

func (s *EventStream) Close() error {
	return s.q.CloseWithError(nil)
}
