package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BalanceChoice records which option a user picked in a balance game round.
type BalanceChoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GameID    uuid.UUID `gorm:"type:uuid;index;not null;column:game_id" json:"game_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	OptionID  uuid.UUID `gorm:"type:uuid;not null;column:option_id" json:"option_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BalanceChoice) TableName() string {
	return "balance_choice"
}
