package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification stores in-app notification payloads scoped to users. ReadAt is
// monotonic: once set it stays set until the row is deleted by its recipient.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	TypeID    uuid.UUID  `gorm:"column:type_id;type:uuid;not null" json:"typeId"`
	Title     string     `gorm:"type:text;not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Link      *string    `gorm:"type:text" json:"link,omitempty"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// NotificationType is the category lookup table. Dispatch falls back to the
// "sistem" row when a category code is unrecognized.
type NotificationType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
