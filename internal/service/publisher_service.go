package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"audio-eval-be/internal/dto"
	"audio-eval-be/internal/pkg/logger"
	"audio-eval-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// remotePublishTimeout bounds the remote forward so a slow bus cannot hold up
// the request that saved the feedback.
const remotePublishTimeout = 3 * time.Second

type IPublisherService interface {
	PublishFeedbackSubmitted(ctx context.Context, msg dto.FeedbackSubmittedMessage) error
}

// publisherService puts feedback events on the in-process bus and, when a
// remote bus is configured, forwards them there as well.
type publisherService struct {
	topicName string
	pubSub    message.Publisher
	remote    events.Publisher
	timeout   time.Duration
	logger    logger.ILogger
}

// NewPublisherService accepts a nil remote publisher.
func NewPublisherService(topicName string, pubSub message.Publisher, remote events.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		remote:    remote,
		timeout:   remotePublishTimeout,
		logger:    log,
	}
}

func (p *publisherService) PublishFeedbackSubmitted(ctx context.Context, msg dto.FeedbackSubmittedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal feedback event: %w", err)
	}

	if err := p.pubSub.Publish(p.topicName, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		return fmt.Errorf("publish feedback event: %w", err)
	}

	if p.remote != nil {
		event := events.NewFeedbackSubmitted(msg.SessionID, msg.Filename, msg.FieldCount, msg.SubmittedAt)
		rctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		if err := p.remote.Publish(rctx, event); err != nil {
			p.logger.Warn("Events", "Remote publish failed", map[string]interface{}{
				"error":    err.Error(),
				"filename": msg.Filename,
			})
		}
	}
	return nil
}
