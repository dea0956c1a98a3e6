package domain

import "time"

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformAndroid, PlatformIOS, PlatformWeb:
		return true
	}
	return false
}

// PushToken is one device endpoint registered for push notifications.
// A token value is active for at most one user at a time.
type PushToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_push_tokens_user_token;index:idx_push_tokens_user_active;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex:idx_push_tokens_user_token;uniqueIndex:idx_push_tokens_active_token,where:is_active = true;not null"` // Don't expose token in JSON
	Platform  Platform  `json:"platform" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"index:idx_push_tokens_user_active;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
