package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"lms-backend/internal/notification/domain"
	"lms-backend/internal/notification/repository"
	"lms-backend/pkg/queue"

	"github.com/google/uuid"
)

var nowFunc = time.Now // mockable

type fanout struct {
	notificationRepo repository.NotificationRepository
	users            UserDirectory
	deliveries       queue.Queue
}

func NewFanout(notificationRepo repository.NotificationRepository, users UserDirectory, deliveries queue.Queue) Fanout {
	return &fanout{
		notificationRepo: notificationRepo,
		users:            users,
		deliveries:       deliveries,
	}
}

func (f *fanout) NotifyUser(ctx context.Context, in NotifyInput) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:         uuid.New().String(),
		UserID:     in.UserID,
		Type:       in.Type,
		Title:      in.Title,
		Message:    in.Message,
		Link:       in.Link,
		FromUserID: in.FromUserID,
		CreatedAt:  nowFunc(),
	}
	if err := f.notificationRepo.CreateMany([]*domain.Notification{n}); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	f.enqueue(ctx, queue.Task{
		UserID: in.UserID,
		Title:  in.Title,
		Body:   in.Message,
		Data:   pushData(in.Type, in.Link),
	})
	return n, nil
}

func (f *fanout) NotifyAll(ctx context.Context, in NotifyAllInput) (int, error) {
	userIDs, err := f.users.ListIDs(in.ExceptUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	now := nowFunc()
	rows := make([]*domain.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, &domain.Notification{
			ID:         uuid.New().String(),
			UserID:     userID,
			Type:       in.Type,
			Title:      in.Title,
			Message:    in.Message,
			Link:       in.Link,
			FromUserID: in.FromUserID,
			CreatedAt:  now,
		})
	}
	if err := f.notificationRepo.CreateMany(rows); err != nil {
		return 0, fmt.Errorf("failed to create notifications: %w", err)
	}
	log.Printf("[Fanout] Created %d %s notifications", len(rows), in.Type)

	// Broadcast goes to every active token, the excluded user's devices included.
	f.enqueue(ctx, queue.Task{
		Title: in.Title,
		Body:  in.Message,
		Data:  pushData(in.Type, in.Link),
	})
	return len(rows), nil
}

func (f *fanout) enqueue(ctx context.Context, task queue.Task) {
	if err := f.deliveries.Enqueue(ctx, task); err != nil {
		target := task.UserID
		if task.Broadcast() {
			target = "all users"
		}
		log.Printf("[Fanout] Push delivery to %s not queued: %v", target, err)
	}
}

func pushData(t domain.Type, link *string) map[string]string {
	data := map[string]string{
		"type": string(t),
		"link": "",
	}
	if link != nil {
		data["link"] = *link
	}
	return data
}
