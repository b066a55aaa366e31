package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagContentMap links a tag to a piece of couple content (a memo) on behalf
// of the user who applied it.
type TagContentMap struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TagID     uuid.UUID `gorm:"type:uuid;index;not null;column:tag_id" json:"tag_id"`
	MemoID    uuid.UUID `gorm:"type:uuid;index;not null;column:memo_id" json:"memo_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TagContentMap) TableName() string {
	return "tag_content_map"
}
