package repository

import (
	"errors"

	"lms-backend/internal/notification/domain"

	"gorm.io/gorm"
)

const createBatchSize = 500

type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM-based notification repository
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) CreateMany(notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(notifications, createBatchSize).Error
	})
}

func (r *gormNotificationRepository) FindByID(id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *gormNotificationRepository) ListLatest(userID string, limit int) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *gormNotificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *gormNotificationRepository) MarkRead(id string) error {
	return r.db.Model(&domain.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func (r *gormNotificationRepository) MarkAllRead(userID string) (int64, error) {
	result := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *gormNotificationRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Notification{}).Error
}

func (r *gormNotificationRepository) Purge() (int64, error) {
	result := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Notification{})
	return result.RowsAffected, result.Error
}
