package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationIntervalDay NotificationType = "COUPLE_INTERVAL_DAY"
	NotificationYearly      NotificationType = "COUPLE_YEARLY_ANNIVERSARY"
	NotificationBirthday    NotificationType = "MEMBER_BIRTHDAY"
)

// ScheduledNotification is one pending push per recipient. Cancelling a
// schedule soft-deletes the rows; delivery itself happens downstream.
type ScheduledNotification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Type      NotificationType `gorm:"not null;index;column:type" json:"type"`
	Message   string           `gorm:"not null;column:message" json:"message"`
	Payload   datatypes.JSON   `gorm:"column:payload" json:"payload"`
	NotifyAt  time.Time        `gorm:"not null;index;column:notify_at" json:"notify_at"`
	SentAt    *time.Time       `gorm:"column:sent_at" json:"sent_at"`
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (ScheduledNotification) TableName() string {
	return "scheduled_notification"
}
