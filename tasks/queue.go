package tasks

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Task is one unit of background work. Payload is type-specific JSON.
type Task struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes a dequeued task.
type Handler func(ctx context.Context, task Task) error

// Queue accepts fire-and-forget tasks. Enqueue returns the task id as a
// handle; delivery is best effort and the caller gets no completion signal.
type Queue interface {
	Enqueue(ctx context.Context, task Task) (string, error)
}

// MemoryQueue runs tasks on a single worker goroutine fed by a buffered
// channel. It is the default queue when no broker is configured, and the
// test double.
type MemoryQueue struct {
	ch      chan Task
	handler Handler
	done    chan struct{}
}

func NewMemoryQueue(buffer int, handler Handler) *MemoryQueue {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryQueue{
		ch:      make(chan Task, buffer),
		handler: handler,
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. Handler errors are logged, not
// surfaced; nothing is retried.
func (q *MemoryQueue) Start() {
	go func() {
		defer close(q.done)
		for task := range q.ch {
			if err := q.handler(context.Background(), task); err != nil {
				log.Printf("task %s (%s) failed: %v", task.ID, task.Type, err)
			}
		}
	}()
}

// Stop closes the queue and waits for in-flight tasks to drain.
func (q *MemoryQueue) Stop() {
	close(q.ch)
	<-q.done
}

func (q *MemoryQueue) Enqueue(ctx context.Context, task Task) (string, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	select {
	case q.ch <- task:
		return task.ID, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
