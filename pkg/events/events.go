package events

import (
	"context"
	"time"
)

// Event types emitted by the assignment lifecycle.
const (
	TypeAssignmentCreated   = "assignment.created"
	TypeSubmissionSubmitted = "submission.submitted"
	TypeSubmissionGraded    = "submission.graded"
	TypeNotificationPosted  = "notification.posted"
)

// Event is the envelope written to the broker.
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurred_at"`
	ActorID    string      `json:"actor_id"`
	Data       interface{} `json:"data"`
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, Event) error { return nil }
