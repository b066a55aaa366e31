package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CalendarEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID  uuid.UUID  `gorm:"type:uuid;index;not null;column:couple_id" json:"couple_id"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Title     string     `gorm:"not null;column:title" json:"title"`
	StartsAt  time.Time  `gorm:"not null;column:starts_at" json:"starts_at"`
	EndsAt    *time.Time `gorm:"column:ends_at" json:"ends_at"`
	AllDay    bool       `gorm:"not null;default:false;column:all_day" json:"all_day"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CalendarEvent) TableName() string {
	return "calendar_event"
}
