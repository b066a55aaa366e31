package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CoupleStatus string

const (
	CoupleStatusActive   CoupleStatus = "ACTIVE"
	CoupleStatusInactive CoupleStatus = "INACTIVE"
)

// Couple is the relationship aggregate. Version is the optimistic-lock
// counter; every mutating write checks it and bumps it in the same update.
type Couple struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	StartDate     *time.Time   `gorm:"type:date;column:start_date" json:"start_date"`
	SharedMessage *string      `gorm:"column:shared_message" json:"shared_message"`
	Status        CoupleStatus `gorm:"not null;default:'ACTIVE';column:status" json:"status"`
	Version       int64        `gorm:"not null;default:0;column:version" json:"version"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Couple) TableName() string {
	return "couple"
}
