package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// PubSub carries tasks through a Google Cloud Pub/Sub topic and its "<topic>-sub" subscription.
type PubSub struct {
	client    *pubsub.Client
	topic     *pubsub.Topic
	topicName string
	subName   string
}

func NewPubSub(ctx context.Context, projectID, topicName, credentialsFile string) (*PubSub, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to create topic %s: %w", topicName, err)
		}
		log.Printf("[PubSub] Created topic: %s", topicName)
	}

	return &PubSub{
		client:    client,
		topic:     topic,
		topicName: topicName,
		subName:   topicName + "-sub", // Convention: topic-sub
	}, nil
}

func (q *PubSub) Enqueue(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	if _, err := q.topic.Publish(ctx, &pubsub.Message{Data: data}).Get(ctx); err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

func (q *PubSub) Start(ctx context.Context, handler Handler) error {
	sub := q.client.Subscription(q.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check subscription %s: %w", q.subName, err)
	}
	if !exists {
		sub, err = q.client.CreateSubscription(ctx, q.subName, pubsub.SubscriptionConfig{
			Topic:       q.topic,
			AckDeadline: 60 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("failed to create subscription %s: %w", q.subName, err)
		}
		log.Printf("[PubSub] Created subscription: %s", q.subName)
	}

	log.Printf("[PubSub] Listening for delivery tasks on subscription: %s", q.subName)
	go func() {
		err := sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
			var task Task
			if err := json.Unmarshal(msg.Data, &task); err != nil {
				log.Printf("[PubSub] Dropping malformed task: %v", err)
				msg.Ack()
				return
			}
			if err := handler(ctx, task); err != nil {
				log.Printf("[PubSub] Task failed, will be redelivered: %v", err)
				msg.Nack()
				return
			}
			msg.Ack()
		})
		if err != nil {
			log.Printf("[PubSub] Error receiving messages: %v", err)
		}
	}()
	return nil
}

func (q *PubSub) Close() error {
	q.topic.Stop()
	return q.client.Close()
}
