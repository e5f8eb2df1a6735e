package dto

import "time"

// FeedbackSubmittedMessage is published on the in-process bus after a
// feedback record has been persisted.
type FeedbackSubmittedMessage struct {
	SessionID   string    `json:"session_id"`
	Filename    string    `json:"filename"`
	FieldCount  int       `json:"field_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}
