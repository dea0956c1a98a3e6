package usecase

import (
	"context"
	"strings"
	"sync"

	"lms-backend/internal/notification/domain"
	"lms-backend/pkg/fcm"
	"lms-backend/pkg/queue"
)

type fakeNotificationRepo struct {
	rows      []*domain.Notification
	createErr error
}

func (f *fakeNotificationRepo) CreateMany(notifications []*domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, notifications...)
	return nil
}

func (f *fakeNotificationRepo) FindByID(id string) (*domain.Notification, error) {
	for _, n := range f.rows {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) ListLatest(userID string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(userID string) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(id string) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(userID string) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) Delete(id string) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Purge() (int64, error) {
	n := int64(len(f.rows))
	f.rows = nil
	return n, nil
}

type fakeDirectory struct {
	ids   []string
	names map[string]string // lower-case name -> id
	err   error
}

func (f *fakeDirectory) FindIDByName(name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.names[strings.ToLower(name)], nil
}

func (f *fakeDirectory) ListIDs(exceptID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for _, id := range f.ids {
		if id != exceptID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []queue.Task
	err   error
}

func (f *fakeQueue) Enqueue(_ context.Context, task queue.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeQueue) Start(context.Context, queue.Handler) error { return nil }
func (f *fakeQueue) Close() error                              { return nil }

type fakeTokens struct {
	byUser map[string][]string
	all    []string
	err    error
}

func (f *fakeTokens) ActiveTokensForUser(userID string) ([]string, error) {
	return f.byUser[userID], f.err
}

func (f *fakeTokens) AllActiveTokens() ([]string, error) {
	return f.all, f.err
}

// scriptedDispatcher returns a fixed result per token.
type scriptedDispatcher struct {
	results map[string]fcm.Outcome
	sent    []fcm.Message
}

func (d *scriptedDispatcher) Send(_ context.Context, msg fcm.Message) fcm.Result {
	d.sent = append(d.sent, msg)
	outcome, ok := d.results[msg.Token]
	if !ok {
		outcome = fcm.Delivered
	}
	return fcm.Result{Outcome: outcome}
}
