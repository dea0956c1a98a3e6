package queue

import (
	"context"
	"sync"
)

// Inline runs the handler inside Enqueue, on the caller's goroutine.
type Inline struct {
	mu      sync.RWMutex
	handler Handler
	closed  bool
}

func NewInline() *Inline {
	return &Inline{}
}

func (q *Inline) Start(_ context.Context, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
	return nil
}

func (q *Inline) Enqueue(ctx context.Context, task Task) error {
	q.mu.RLock()
	handler, closed := q.handler, q.closed
	q.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if handler == nil {
		return ErrNotStarted
	}
	return handler(ctx, task)
}

func (q *Inline) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
