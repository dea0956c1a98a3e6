package usecase

import (
	"context"
	"fmt"
	"log"

	"lms-backend/pkg/fcm"
	"lms-backend/pkg/queue"
)

// TokenSource resolves the device tokens a task is addressed to.
type TokenSource interface {
	ActiveTokensForUser(userID string) ([]string, error)
	AllActiveTokens() ([]string, error)
}

// PushDispatcher is satisfied by *fcm.Dispatcher.
type PushDispatcher interface {
	Send(ctx context.Context, msg fcm.Message) fcm.Result
}

// Report counts what happened to each token of one task.
type Report struct {
	Sent    int
	Failed  int
	Removed int
}

// DeliveryWorker drains delivery tasks, one token at a time.
type DeliveryWorker struct {
	tokens     TokenSource
	dispatcher PushDispatcher
}

func NewDeliveryWorker(tokens TokenSource, dispatcher PushDispatcher) *DeliveryWorker {
	return &DeliveryWorker{
		tokens:     tokens,
		dispatcher: dispatcher,
	}
}

// Deliver sends the task to every resolved token. Only token lookup errors are returned;
// per-token failures are counted in the Report.
func (w *DeliveryWorker) Deliver(ctx context.Context, task queue.Task) (Report, error) {
	var (
		tokens []string
		err    error
	)
	if task.Broadcast() {
		tokens, err = w.tokens.AllActiveTokens()
	} else {
		tokens, err = w.tokens.ActiveTokensForUser(task.UserID)
	}
	if err != nil {
		return Report{}, fmt.Errorf("failed to resolve push tokens: %w", err)
	}

	data := make(map[string]any, len(task.Data))
	for k, v := range task.Data {
		data[k] = v
	}

	var report Report
	for _, token := range tokens {
		result := w.dispatcher.Send(ctx, fcm.Message{
			Token: token,
			Title: task.Title,
			Body:  task.Body,
			Data:  data,
		})
		switch result.Outcome {
		case fcm.Delivered:
			report.Sent++
		case fcm.TokenRemoved:
			report.Removed++
		default:
			report.Failed++
		}
	}
	return report, nil
}

// Handle adapts Deliver to queue.Handler.
func (w *DeliveryWorker) Handle(ctx context.Context, task queue.Task) error {
	report, err := w.Deliver(ctx, task)
	if err != nil {
		log.Printf("[DeliveryWorker] %v", err)
		return err
	}

	target := task.UserID
	if task.Broadcast() {
		target = "all"
	}
	log.Printf("[DeliveryWorker] Push to %s: sent=%d failed=%d removed=%d", target, report.Sent, report.Failed, report.Removed)
	return nil
}
