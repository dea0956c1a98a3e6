package queue

import (
	"context"
	"log"
	"sync"
)

const DefaultBufferSize = 500

// Memory is a buffered channel drained by a fixed pool of workers.
type Memory struct {
	tasks       chan Task
	workerCount int
	workerWg    sync.WaitGroup
	mu          sync.RWMutex
	started     bool
	closed      bool
}

func NewMemory(bufferSize, workerCount int) *Memory {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Memory{
		tasks:       make(chan Task, bufferSize),
		workerCount: workerCount,
	}
}

// Start starts the workers
func (q *Memory) Start(ctx context.Context, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.started {
		return nil
	}

	for i := 0; i < q.workerCount; i++ {
		q.workerWg.Add(1)
		go q.worker(ctx, i, handler)
	}
	q.started = true
	log.Printf("[Queue] Started %d delivery workers", q.workerCount)
	return nil
}

func (q *Memory) worker(ctx context.Context, id int, handler Handler) {
	defer q.workerWg.Done()

	for task := range q.tasks {
		if err := handler(ctx, task); err != nil {
			log.Printf("[Queue] Worker %d: task failed: %v", id, err)
		}
	}

	log.Printf("[Queue] Worker %d stopped", id)
}

// Enqueue never blocks; a full buffer is reported as ErrQueueFull.
func (q *Memory) Enqueue(_ context.Context, task Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting tasks and waits for the workers to drain the buffer.
func (q *Memory) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.workerWg.Wait()
	log.Println("[Queue] All delivery workers stopped")
	return nil
}
