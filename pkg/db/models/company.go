package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the buyer-side profile, one per user.
type Company struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"column:owner_id;type:uuid;not null;uniqueIndex" json:"ownerId"`
	TradeName    string    `gorm:"column:trade_name;not null" json:"tradeName"`
	TaxNumber    string    `gorm:"column:tax_number;not null;uniqueIndex" json:"taxNumber"`
	LogoPath     *string   `gorm:"column:logo_path" json:"logoPath,omitempty"`
	Website      *string   `gorm:"column:website" json:"website,omitempty"`
	ContactEmail *string   `gorm:"column:contact_email" json:"contactEmail,omitempty"`
	ContactPhone *string   `gorm:"column:contact_phone" json:"contactPhone,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
