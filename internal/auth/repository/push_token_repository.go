package repository

import (
	"errors"
	"log"
	"time"

	authdomain "lms-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pushTokenRepository struct {
	db *gorm.DB
}

func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{
		db: db,
	}
}

const saveTokenAttempts = 3

// SaveToken runs the hand-over and the upsert in one transaction. The partial
// unique index on active tokens rejects a concurrent registration of the same
// token; the loser retries and takes the token over.
func (r *pushTokenRepository) SaveToken(userID, token string, platform authdomain.Platform) error {
	var err error
	for attempt := 1; attempt <= saveTokenAttempts; attempt++ {
		err = r.saveToken(userID, token, platform)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		log.Printf("[PushToken] Token registration for user %s conflicted (attempt %d)", userID, attempt)
	}
	return err
}

func (r *pushTokenRepository) saveToken(userID, token string, platform authdomain.Platform) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&authdomain.PushToken{}).
			Where("token = ? AND user_id <> ? AND is_active = ?", token, userID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}

		now := time.Now()
		pushToken := &authdomain.PushToken{
			ID:        uuid.New().String(),
			UserID:    userID,
			Token:     token,
			Platform:  platform,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		// INSERT ... ON CONFLICT (user_id, token) DO UPDATE
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"platform", "is_active", "updated_at"}),
		}).Create(pushToken).Error
	})
}

func (r *pushTokenRepository) Deactivate(userID, token string) error {
	return r.db.Model(&authdomain.PushToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("is_active", false).Error
}

func (r *pushTokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.PushToken{}).Error
}

func (r *pushTokenRepository) ActiveTokensForUser(userID string) ([]string, error) {
	var tokens []string
	err := r.db.Model(&authdomain.PushToken{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *pushTokenRepository) AllActiveTokens() ([]string, error) {
	var tokens []string
	err := r.db.Model(&authdomain.PushToken{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
