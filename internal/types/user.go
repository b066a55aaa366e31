package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStatus string

const (
	UserStatusNew     UserStatus = "NEW"
	UserStatusSingle  UserStatus = "SINGLE"
	UserStatusCoupled UserStatus = "COUPLED"
)

// User keeps a non-owning id reference to its couple. Membership and status
// are flipped only through the couple service, never directly.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Nickname  string     `gorm:"not null;column:nickname" json:"nickname"`
	BirthDate *time.Time `gorm:"type:date;column:birth_date" json:"birth_date"`
	Status    UserStatus `gorm:"not null;default:'NEW';column:status" json:"status"`
	CoupleID  *uuid.UUID `gorm:"type:uuid;index;column:couple_id" json:"couple_id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "app_user"
}
