// Package streambuf provides a bounded blocking FIFO that bridges a
// producer goroutine to a pull-based consumer. The producer Adds elements
// and eventually calls CloseWrite (graceful end) or CloseWithError (abort);
// the consumer calls Next until it returns ErrDone or the closing error.
//
// The fixed capacity gives flow control for free: a producer pulling from a
// network stream blocks once the consumer falls behind by the queue size.
package streambuf

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrDone is returned by Next after the write side is closed and all
// buffered elements have been consumed.
var ErrDone = errors.New("streambuf: done")

// Queue is a thread-safe circular FIFO with blocking Add and Next.
type Queue[T any] struct {
	cond *sync.Cond

	mu         sync.Mutex
	buf        []T
	head, tail int64
	closeWrite bool
	closeErr   error
}

// New creates a Queue with the given capacity. It panics if size is less
// than 1; a zero-capacity queue could never accept an element.
func New[T any](size int) *Queue[T] {
	if size < 1 {
		panic("streambuf: size must be at least 1")
	}
	q := &Queue[T]{buf: make([]T, size)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add appends one element, blocking while the queue is full. It fails once
// the write side is closed or the queue was closed with an error.
func (q *Queue[T]) Add(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closeErr != nil {
			return fmt.Errorf("streambuf: add to closed queue: %w", q.closeErr)
		}
		if q.closeWrite {
			return fmt.Errorf("streambuf: add to closed queue: %w", io.ErrClosedPipe)
		}
		if q.tail-q.head < int64(len(q.buf)) {
			break
		}
		q.cond.Wait()
	}
	q.buf[q.tail%int64(len(q.buf))] = v
	q.tail++
	q.cond.Broadcast()
	return nil
}

// Next removes and returns the oldest element, blocking while the queue is
// empty. It returns ErrDone once the queue is drained after CloseWrite, or
// the closing error if the queue was aborted.
func (q *Queue[T]) Next() (v T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == q.tail {
		if q.closeErr != nil {
			err = q.closeErr
			return
		}
		if q.closeWrite {
			err = ErrDone
			return
		}
		q.cond.Wait()
	}
	i := q.head % int64(len(q.buf))
	v = q.buf[i]
	var zero T
	q.buf[i] = zero
	q.head++
	q.cond.Broadcast()
	return v, nil
}

// CloseWrite closes the write side. Buffered elements remain readable;
// once drained, Next returns ErrDone.
func (q *Queue[T]) CloseWrite() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeWrite {
		return nil
	}
	q.closeWrite = true
	q.cond.Broadcast()
	return nil
}

// CloseWithError aborts the queue. Buffered elements are dropped and all
// pending and future operations fail with err. A nil err is replaced by
// io.ErrClosedPipe. Only the first close takes effect.
func (q *Queue[T]) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closeErr != nil {
		return nil
	}
	q.closeErr = err
	q.closeWrite = true
	q.head = q.tail
	q.cond.Broadcast()
	return nil
}

// Err returns the error the queue was closed with, if any.
func (q *Queue[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closeErr
}

// Len returns the number of buffered elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int(q.tail - q.head)
}
