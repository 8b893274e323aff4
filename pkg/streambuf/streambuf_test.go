package streambuf

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New[int](4)
	for i := range 4 {
		if err := q.Add(i); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
	q.CloseWrite()
	for i := range 4 {
		v, err := q.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if v != i {
			t.Errorf("Next() = %d, want %d", v, i)
		}
	}
	if _, err := q.Next(); err != ErrDone {
		t.Errorf("Next after drain = %v, want ErrDone", err)
	}
}

func TestQueue_BlocksWhenFull(t *testing.T) {
	q := New[int](1)
	if err := q.Add(1); err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		q.Add(2)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Add returned while queue was full")
	case <-time.After(20 * time.Millisecond):
	}
	if _, err := q.Next(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Add did not unblock after Next")
	}
}

func TestQueue_CloseWithError(t *testing.T) {
	q := New[string](2)
	q.Add("kept?")
	wantErr := errors.New("upstream failed")
	q.CloseWithError(wantErr)

	if _, err := q.Next(); !errors.Is(err, wantErr) {
		t.Errorf("Next = %v, want %v", err, wantErr)
	}
	if err := q.Add("late"); !errors.Is(err, wantErr) {
		t.Errorf("Add = %v, want wrapped %v", err, wantErr)
	}
	if err := q.Err(); err != wantErr {
		t.Errorf("Err() = %v, want %v", err, wantErr)
	}
}

func TestQueue_CloseWithErrorUnblocksReader(t *testing.T) {
	q := New[int](1)
	wantErr := errors.New("abort")
	errc := make(chan error, 1)
	go func() {
		_, err := q.Next()
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)
	q.CloseWithError(wantErr)
	select {
	case err := <-errc:
		if !errors.Is(err, wantErr) {
			t.Errorf("Next = %v, want %v", err, wantErr)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock")
	}
}

func TestQueue_ProducerConsumer(t *testing.T) {
	const n = 1000
	q := New[int](8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range n {
			if err := q.Add(i); err != nil {
				t.Errorf("Add(%d): %v", i, err)
				return
			}
		}
		q.CloseWrite()
	}()

	var got []int
	for {
		v, err := q.Next()
		if err == ErrDone {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v)
	}
	wg.Wait()

	if len(got) != n {
		t.Fatalf("received %d elements, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestQueue_RejectsZeroCapacity(t *testing.T) {
	for _, size := range []int{0, -1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d) did not panic", size)
				}
			}()
			New[int](size)
		}()
	}
}
