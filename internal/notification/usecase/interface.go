package usecase

import (
	"context"

	"lms-backend/internal/notification/domain"
)

// NotifyInput describes one notification for one user.
type NotifyInput struct {
	UserID     string
	Type       domain.Type
	Title      string
	Message    string
	Link       *string
	FromUserID *string
}

// NotifyAllInput describes one notification for every user except ExceptUserID.
type NotifyAllInput struct {
	Type         domain.Type
	Title        string
	Message      string
	Link         *string
	FromUserID   *string
	ExceptUserID string
}

// Fanout persists notification rows and hands push delivery to the queue.
// Persistence errors are returned; delivery problems never are.
type Fanout interface {
	NotifyUser(ctx context.Context, in NotifyInput) (*domain.Notification, error)
	// NotifyAll returns the number of rows written.
	NotifyAll(ctx context.Context, in NotifyAllInput) (int, error)
}

// MentionInput is a piece of user-written content that may tag other users with @Name.
type MentionInput struct {
	AuthorID   string
	AuthorName string
	Content    string
	Link       *string
}

// MentionUsecase notifies every user tagged in a piece of content.
type MentionUsecase interface {
	NotifyMentioned(ctx context.Context, in MentionInput) ([]*domain.Notification, error)
}

// InboxUsecase covers what a user does with their own notifications.
type InboxUsecase interface {
	List(userID string) ([]*domain.Notification, int64, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	Delete(userID, notificationID string) error

	// Purge wipes every notification in the system.
	Purge() (int64, error)
}

// UserDirectory resolves notification recipients.
type UserDirectory interface {
	ListIDs(exceptID string) ([]string, error)
	// FindIDByName returns "" when nobody has the name.
	FindIDByName(name string) (string, error)
}
