package domain

import "time"

type Type string

const (
	TypeNewCourse         Type = "new_course"
	TypeNewLesson         Type = "new_lesson"
	TypeNewMaterial       Type = "new_material"
	TypeNewTest           Type = "new_test"
	TypeNewZoom           Type = "new_zoom"
	TypeAdminAnnouncement Type = "admin_announcement"
	TypeMention           Type = "mention"
)

// Notification is one inbox entry for one user. Only IsRead changes after creation.
type Notification struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index:idx_notifications_user_created;not null"`
	Type       Type      `json:"type" gorm:"not null"`
	Title      string    `json:"title" gorm:"not null"`
	Message    string    `json:"message"`
	Link       *string   `json:"link"`
	FromUserID *string   `json:"from_user_id"`
	IsRead     bool      `json:"is_read" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_notifications_user_created"`
}
