package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const consumerTag = "push-delivery"

// AMQP carries tasks through a durable RabbitMQ queue.
type AMQP struct {
	conn      *amqp.Connection
	publishCh *amqp.Channel
	consumeCh *amqp.Channel
	queueName string
	mu        sync.Mutex
}

func NewAMQP(url, queueName string) (*AMQP, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return &AMQP{
		conn:      conn,
		publishCh: ch,
		queueName: queueName,
	}, nil
}

func (q *AMQP) Enqueue(ctx context.Context, task Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	err = q.publishCh.PublishWithContext(ctx, "", q.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

func (q *AMQP) Start(ctx context.Context, handler Handler) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(q.queueName, consumerTag, false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	q.mu.Lock()
	q.consumeCh = ch
	q.mu.Unlock()

	log.Printf("[AMQP] Consuming delivery tasks from queue: %s", q.queueName)
	go func() {
		<-ctx.Done()
		ch.Cancel(consumerTag, false)
	}()
	go func() {
		for d := range msgs {
			q.process(ctx, d, handler)
		}
		log.Println("[AMQP] Consumer stopped")
	}()
	return nil
}

func (q *AMQP) process(ctx context.Context, d amqp.Delivery, handler Handler) {
	var task Task
	if err := json.Unmarshal(d.Body, &task); err != nil {
		log.Printf("[AMQP] Failed to decode task: %v", err)
		d.Nack(false, false) // Discard malformed message.
		return
	}
	if err := handler(ctx, task); err != nil {
		log.Printf("[AMQP] Task failed, requeueing: %v", err)
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func (q *AMQP) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.consumeCh != nil {
		q.consumeCh.Close()
	}
	q.publishCh.Close()
	return q.conn.Close()
}
