package service

import (
	"context"
	"encoding/json"
	"sync"

	"audio-eval-be/internal/dto"
	"audio-eval-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	// Tally returns feedback submissions per file since the process started.
	Tally() map[string]int
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	logger     logger.ILogger

	mu    sync.RWMutex
	tally map[string]int
}

func NewConsumerService(subscriber message.Subscriber, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		logger:     log,
		tally:      make(map[string]int),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.FeedbackSubmittedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("Consumer", "Failed to unmarshal feedback event", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	cs.mu.Lock()
	cs.tally[payload.Filename]++
	count := cs.tally[payload.Filename]
	cs.mu.Unlock()

	cs.logger.Debug("Consumer", "Feedback counted", map[string]interface{}{
		"filename": payload.Filename,
		"count":    count,
	})
	msg.Ack()
}

func (cs *consumerService) Tally() map[string]int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make(map[string]int, len(cs.tally))
	for k, v := range cs.tally {
		out[k] = v
	}
	return out
}
