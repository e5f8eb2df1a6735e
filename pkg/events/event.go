package events

import (
	"context"
	"time"
)

const TypeFeedbackSubmitted = "FEEDBACK_SUBMITTED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FEEDBACK_SUBMITTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to a bus. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewFeedbackSubmitted describes a feedback record that was persisted.
func NewFeedbackSubmitted(sessionID, filename string, fields int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeFeedbackSubmitted,
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"filename":    filename,
			"field_count": fields,
			"occurred_at": at.Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}
