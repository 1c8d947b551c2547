package port

import (
	"context"
	"time"
)

// Task is a background job with a stable type string and opaque payload bytes.
// Payload encoding is the caller's concern.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error triggers retry per adapter policy,
// so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes enqueue behavior. Zero values mean "unspecified";
// adapters map what they support and ignore the rest.
type EnqueueOption struct {
	Queue     string
	ProcessIn time.Duration
	ProcessAt time.Time // takes precedence over ProcessIn when set
	MaxRetry  int
	UniqueTTL time.Duration
	Retention time.Duration
	Deadline  time.Time
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs background workers. Run blocks until the context is canceled or
// Stop is called.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
