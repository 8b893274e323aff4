package llm

import (
	"errors"
	"io"
	"testing"
)

func TestStreamBuilder_FragmentsThenEOF(t *testing.T) {
	sb := NewStreamBuilder(4)
	go func() {
		sb.Add("hel")
		sb.Add("lo")
		sb.Done()
	}()

	s := sb.Stream()
	var got string
	for {
		frag, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got += frag
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestStreamBuilder_Abort(t *testing.T) {
	sb := NewStreamBuilder(4)
	wantErr := &TransportError{Err: errors.New("conn reset")}
	go func() {
		sb.Add("partial")
		sb.Abort(wantErr)
	}()

	s := sb.Stream()
	for {
		_, err := s.Next()
		if err == nil {
			continue
		}
		var te *TransportError
		if !errors.As(err, &te) {
			t.Fatalf("Next = %v, want TransportError", err)
		}
		return
	}
}

func TestStreamBuilder_CloseStopsProducer(t *testing.T) {
	sb := NewStreamBuilder(1)
	stopped := make(chan error, 1)
	go func() {
		// Keep producing until the consumer closes the stream.
		var err error
		for err == nil {
			err = sb.Add("x")
		}
		stopped <- err
	}()

	s := sb.Stream()
	if _, err := s.Next(); err != nil {
		t.Fatal(err)
	}
	s.Close()
	if err := <-stopped; err == nil {
		t.Error("Add succeeded after consumer Close, want error")
	}
}

func TestErrorTypes(t *testing.T) {
	inner := errors.New("boom")
	te := &TransportError{Err: inner}
	if !errors.Is(te, inner) {
		t.Error("TransportError does not unwrap to inner error")
	}
	pe := &ProtocolError{Msg: "odd shape"}
	if pe.Error() == "" {
		t.Error("ProtocolError has empty message")
	}
}
