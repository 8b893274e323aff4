package forge

import (
	"errors"
	"io"
	"testing"
)

func drain(t *testing.T, s *EventStream) []Event {
	t.Helper()
	var evs []Event
	for {
		ev, err := s.Next()
		if err == io.EOF {
			return evs
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		evs = append(evs, ev)
	}
}

func TestBroadcasterMinimalDeltas(t *testing.T) {
	b := NewBroadcaster(16)
	b.Progress("m", StageMarkup, "<div>")
	b.Progress("m", StageMarkup, "<div></div>")
	b.Progress("m", StageMarkup, "<div></div>") // no growth, no event
	b.ModelDone("m")
	b.Finish()

	evs := drain(t, b.Events())
	want := []Event{
		{Type: EventChunk, Model: "m", Stage: StageMarkup, Delta: `<stage type="markup"><div>`},
		{Type: EventChunk, Model: "m", Stage: StageMarkup, Delta: `</div>`},
		{Type: EventChunk, Model: "m", Stage: StageMarkup, Delta: `</stage>`},
		{Type: EventModelDone, Model: "m"},
		{Type: EventDone},
	}
	if len(evs) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(evs), evs, len(want))
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, evs[i], want[i])
		}
	}
}

func TestBroadcasterStageTransition(t *testing.T) {
	b := NewBroadcaster(16)
	b.Progress("m", StageMarkup, "<p>")
	b.Progress("m", StageStyling, "p{}")
	b.ModelDone("m")
	b.Finish()

	evs := drain(t, b.Events())
	if got, want := evs[1].Delta, `</stage><stage type="styling">p{}`; got != want {
		t.Errorf("transition delta = %q, want %q", got, want)
	}
	if got, want := evs[2].Delta, `</stage>`; got != want {
		t.Errorf("closing delta = %q, want %q", got, want)
	}
}

func TestBroadcasterIndependentModels(t *testing.T) {
	// Interleaved totals from two models must not disturb each other's
	// sent offsets.
	b := NewBroadcaster(16)
	b.Progress("a", StageMarkup, "aa")
	b.Progress("b", StageMarkup, "b")
	b.Progress("a", StageMarkup, "aaaa")
	b.Progress("b", StageMarkup, "bbb")
	b.ModelDone("a")
	b.ModelDone("b")
	b.Finish()

	got := map[string]string{}
	for _, ev := range drain(t, b.Events()) {
		if ev.Type == EventChunk {
			got[ev.Model] += ev.Delta
		}
	}
	if want := `<stage type="markup">aaaa</stage>`; got["a"] != want {
		t.Errorf("model a = %q, want %q", got["a"], want)
	}
	if want := `<stage type="markup">bbb</stage>`; got["b"] != want {
		t.Errorf("model b = %q, want %q", got["b"], want)
	}
}

func TestBroadcasterModelError(t *testing.T) {
	b := NewBroadcaster(16)
	b.Progress("m", StageMarkup, "<p>")
	b.ModelError("m", errors.New("provider unavailable"))
	b.Finish()

	evs := drain(t, b.Events())
	last := evs[len(evs)-1]
	if last.Type != EventDone {
		t.Errorf("final event = %+v, want done", last)
	}
	var found bool
	for _, ev := range evs {
		if ev.Type == EventError {
			found = true
			if ev.Model != "m" || ev.Error != "provider unavailable" {
				t.Errorf("error event = %+v", ev)
			}
		}
	}
	if !found {
		t.Error("no error event")
	}
}

func TestBroadcasterShrinkingTotalRejected(t *testing.T) {
	b := NewBroadcaster(16)
	b.Progress("m", StageMarkup, "abcdef")
	if err := b.Progress("m", StageMarkup, "abc"); err == nil {
		t.Error("shrinking total accepted")
	}
}
