package repository

import "lms-backend/internal/notification/domain"

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// CreateMany inserts all rows in one transaction.
	CreateMany(notifications []*domain.Notification) error

	FindByID(id string) (*domain.Notification, error)

	// ListLatest returns the user's newest notifications first.
	ListLatest(userID string, limit int) ([]*domain.Notification, error)

	CountUnread(userID string) (int64, error)
	MarkRead(id string) error
	MarkAllRead(userID string) (int64, error)
	Delete(id string) error

	// Purge deletes every notification of every user.
	Purge() (int64, error)
}
