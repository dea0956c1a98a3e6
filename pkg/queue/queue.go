package queue

import (
	"context"
	"errors"
)

var (
	ErrQueueFull  = errors.New("delivery queue is full")
	ErrClosed     = errors.New("delivery queue is closed")
	ErrNotStarted = errors.New("delivery queue has no handler")
)

// Task asks for one push delivery. An empty UserID means every active token.
type Task struct {
	UserID string            `json:"user_id,omitempty"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

func (t Task) Broadcast() bool {
	return t.UserID == ""
}

// Handler processes one task. A returned error asks brokers that support it to redeliver.
type Handler func(ctx context.Context, task Task) error

// Queue carries delivery tasks from the write path to the push workers.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	// Start registers the handler and begins consuming; it does not block.
	Start(ctx context.Context, handler Handler) error
	Close() error
}
