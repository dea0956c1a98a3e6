package queue

import (
	"context"
	"fmt"
	"strings"

	"lms-backend/pkg/config"
)

// NewFromConfig builds the queue selected by DELIVERY_QUEUE.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Queue, error) {
	switch cfg.DeliveryQueue {
	case "inline":
		return NewInline(), nil
	case "memory", "":
		return NewMemory(DefaultBufferSize, cfg.DeliveryWorkers), nil
	case "pubsub":
		// Accept either a short topic name or a full resource name
		topicName := cfg.GooglePubSubTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}
		return NewPubSub(ctx, cfg.GoogleProjectID, topicName, cfg.GoogleCredentials)
	case "rabbitmq":
		return NewAMQP(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	default:
		return nil, fmt.Errorf("unknown DELIVERY_QUEUE %q", cfg.DeliveryQueue)
	}
}
