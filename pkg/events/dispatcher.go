package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecoquest-api/pkg/jobs"
)

// Dispatcher publishes events off the request path through a worker queue.
// Delivery failures are retried and then logged; they never reach callers.
type Dispatcher struct {
	queue  *jobs.Queue[Event]
	logger *zap.Logger
}

// NewDispatcher wraps publisher with an asynchronous queue.
func NewDispatcher(publisher Publisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job[Event]) error {
		sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return publisher.Publish(sendCtx, job.Payload)
	}
	queue := jobs.NewQueue("events", handler, jobs.QueueConfig{
		Workers:      2,
		BufferSize:   256,
		MaxRetries:   3,
		RetryDelay:   2 * time.Second,
		DrainTimeout: 10 * time.Second,
		Logger:       logger,
	})
	return &Dispatcher{queue: queue, logger: logger}
}

// Start launches the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop flushes queued events to the publisher, giving up after the drain
// timeout.
func (d *Dispatcher) Stop() {
	d.queue.Stop()
}

// Publish implements Publisher. It only fails when the event cannot be queued.
func (d *Dispatcher) Publish(_ context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return d.queue.Enqueue(jobs.Job[Event]{Key: event.Type + ":" + event.Key, Payload: event})
}
