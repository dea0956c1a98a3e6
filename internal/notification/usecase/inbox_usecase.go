package usecase

import (
	"errors"
	"log"

	"lms-backend/internal/notification/domain"
	"lms-backend/internal/notification/repository"
)

const inboxLimit = 50

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("notification belongs to another user")
)

type inboxUsecase struct {
	notificationRepo repository.NotificationRepository
}

func NewInboxUsecase(notificationRepo repository.NotificationRepository) InboxUsecase {
	return &inboxUsecase{notificationRepo: notificationRepo}
}

func (u *inboxUsecase) List(userID string) ([]*domain.Notification, int64, error) {
	notifications, err := u.notificationRepo.ListLatest(userID, inboxLimit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := u.notificationRepo.CountUnread(userID)
	if err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

func (u *inboxUsecase) UnreadCount(userID string) (int64, error) {
	return u.notificationRepo.CountUnread(userID)
}

func (u *inboxUsecase) MarkRead(userID, notificationID string) error {
	if err := u.checkOwner(userID, notificationID); err != nil {
		return err
	}
	return u.notificationRepo.MarkRead(notificationID)
}

func (u *inboxUsecase) MarkAllRead(userID string) error {
	_, err := u.notificationRepo.MarkAllRead(userID)
	return err
}

func (u *inboxUsecase) Delete(userID, notificationID string) error {
	if err := u.checkOwner(userID, notificationID); err != nil {
		return err
	}
	return u.notificationRepo.Delete(notificationID)
}

func (u *inboxUsecase) Purge() (int64, error) {
	deleted, err := u.notificationRepo.Purge()
	if err != nil {
		return 0, err
	}
	log.Printf("[Inbox] Purged %d notifications", deleted)
	return deleted, nil
}

func (u *inboxUsecase) checkOwner(userID, notificationID string) error {
	n, err := u.notificationRepo.FindByID(notificationID)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return nil
}
