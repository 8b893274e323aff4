package forge

import (
	"fmt"
	"strings"
	"sync"

	"github.com/uismith/uismith/pkg/streambuf"
)

const stageCloseMarker = "</stage>"

func stageOpenMarker(stage Stage) string {
	return fmt.Sprintf(`<stage type=%q>`, string(stage))
}

// Broadcaster multiplexes the progress of concurrent pipelines onto a
// single ordered event stream. Pipelines report running totals; the
// broadcaster tracks how much of each model's current stage has already
// been sent and emits only the unsent suffix. Stage transitions are
// announced inline with <stage> markers so a client can reconstruct the
// per-stage content by concatenating deltas in arrival order.
type Broadcaster struct {
	mu     sync.Mutex
	q      *streambuf.Queue[Event]
	models map[string]*modelProgress
}

type modelProgress struct {
	stage Stage
	sent  int
	open  bool
}

func NewBroadcaster(size int) *Broadcaster {
	return &Broadcaster{
		q:      streambuf.New[Event](size),
		models: make(map[string]*modelProgress),
	}
}

// Events returns the consumer side of the broadcaster. There is one
// stream; calling Events twice returns views of the same queue.
func (b *Broadcaster) Events() *EventStream {
	return &EventStream{q: b.q}
}

// Progress reports the running total of one model's current stage. The
// emitted delta is the suffix not yet sent, prefixed with stage markers
// when the model moved to a new stage since its last report.
func (b *Broadcaster) Progress(model string, stage Stage, total string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.state(model)
	var delta strings.Builder
	if !st.open || st.stage != stage {
		if st.open {
			delta.WriteString(stageCloseMarker)
		}
		delta.WriteString(stageOpenMarker(stage))
		st.stage = stage
		st.sent = 0
		st.open = true
	}
	if len(total) < st.sent {
		return fmt.Errorf("forge: %s/%s total shrank from %d to %d bytes", model, stage, st.sent, len(total))
	}
	delta.WriteString(total[st.sent:])
	st.sent = len(total)
	if delta.Len() == 0 {
		return nil
	}
	return b.q.Add(Event{Type: EventChunk, Model: model, Stage: stage, Delta: delta.String()})
}

// ModelError reports a terminal failure for one model. The rest of the
// stream is unaffected.
func (b *Broadcaster) ModelError(model string, err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.state(model)
	st.open = false
	return b.q.Add(Event{Type: EventError, Model: model, Error: err.Error()})
}

// ModelDone closes the model's open stage block, if any, and emits its
// completion event.
func (b *Broadcaster) ModelDone(model string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.state(model)
	if st.open {
		st.open = false
		if err := b.q.Add(Event{Type: EventChunk, Model: model, Stage: st.stage, Delta: stageCloseMarker}); err != nil {
			return err
		}
	}
	return b.q.Add(Event{Type: EventModelDone, Model: model})
}

// Finish emits the terminal done event and closes the stream. Call it
// exactly once, after every model has reported done or an error.
func (b *Broadcaster) Finish() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.q.Add(Event{Type: EventDone}); err != nil {
		return err
	}
	return b.q.CloseWrite()
}

func (b *Broadcaster) state(model string) *modelProgress {
	st := b.models[model]
	if st == nil {
		st = &modelProgress{}
		b.models[model] = st
	}
	return st
}
