package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts are soft-deleted by
// flipping Status; rows are never removed.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string           `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string           `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string           `gorm:"column:first_name;not null" json:"firstName"`
	LastName     string           `gorm:"column:last_name;not null" json:"lastName"`
	Phone        *string          `gorm:"column:phone" json:"phone,omitempty"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null" json:"role"`
	Status       enums.UserStatus `gorm:"column:status;type:text;not null;default:'beklemede'" json:"status"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
