package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Memo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID  uuid.UUID `gorm:"type:uuid;index;not null;column:couple_id" json:"couple_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null;column:author_id" json:"author_id"`
	Title     string    `gorm:"column:title" json:"title"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Memo) TableName() string {
	return "memo"
}
