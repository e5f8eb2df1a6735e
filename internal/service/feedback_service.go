package service

import (
	"context"
	"time"

	"audio-eval-be/internal/dto"
	"audio-eval-be/internal/observability"
	"audio-eval-be/internal/pkg/logger"
	"audio-eval-be/internal/repository/feedback"
	"audio-eval-be/pkg/session"
)

const unknownFilename = "unknown"

// FeedbackSink persists one feedback record.
type FeedbackSink interface {
	Append(ctx context.Context, record feedback.Record) error
}

type IFeedbackService interface {
	// Save stamps payload with the time and the session's current file and
	// persists it. The caller's map is not modified.
	Save(ctx context.Context, sessionID string, payload map[string]interface{}) error
}

type feedbackService struct {
	sink      FeedbackSink
	sessions  *session.Manager
	publisher IPublisherService
	metrics   *observability.Metrics
	logger    logger.ILogger
	now       func() time.Time
}

func NewFeedbackService(
	sink FeedbackSink,
	sessions *session.Manager,
	publisher IPublisherService,
	metrics *observability.Metrics,
	log logger.ILogger,
) IFeedbackService {
	return &feedbackService{
		sink:      sink,
		sessions:  sessions,
		publisher: publisher,
		metrics:   metrics,
		logger:    log,
		now:       time.Now,
	}
}

func (s *feedbackService) Save(ctx context.Context, sessionID string, payload map[string]interface{}) error {
	filename := unknownFilename
	if state, found, err := s.sessions.Find(ctx, sessionID); err == nil && found && state.CurrentFile != nil {
		filename = *state.CurrentFile
	}

	now := s.now()
	record := make(feedback.Record, len(payload)+2)
	for k, v := range payload {
		record[k] = v
	}
	record["timestamp"] = now.Format(time.RFC3339)
	record["filename"] = filename

	err := s.sink.Append(ctx, record)
	s.metrics.Feedback(err)
	if err != nil {
		s.logger.Error("Feedback", "Failed to persist feedback", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionID,
			"filename":   filename,
		})
		return err
	}

	s.logger.Info("Feedback", "Feedback saved", map[string]interface{}{
		"session_id": sessionID,
		"filename":   filename,
	})

	if s.publisher != nil {
		msg := dto.FeedbackSubmittedMessage{
			SessionID:   sessionID,
			Filename:    filename,
			FieldCount:  len(payload),
			SubmittedAt: now,
		}
		if err := s.publisher.PublishFeedbackSubmitted(ctx, msg); err != nil {
			s.logger.Warn("Feedback", "Feedback event not published", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return nil
}
