package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agropazar/agropazar-backend/pkg/types"
)

// Farm is the farmer-side profile, one per user. Created as a shell at
// registration and activated when the farm application is approved.
type Farm struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;uniqueIndex" json:"ownerId"`
	Name             string            `gorm:"column:name;not null" json:"name"`
	Description      *string           `gorm:"column:description" json:"description,omitempty"`
	Province         string            `gorm:"column:province;not null" json:"province"`
	District         *string           `gorm:"column:district" json:"district,omitempty"`
	Latitude         *float64          `gorm:"column:latitude;type:numeric(9,6)" json:"latitude,omitempty"`
	Longitude        *float64          `gorm:"column:longitude;type:numeric(9,6)" json:"longitude,omitempty"`
	Tags             types.StringArray `gorm:"column:tags" json:"tags,omitempty"`
	ProfilePhotoPath *string           `gorm:"column:profile_photo_path" json:"profilePhotoPath,omitempty"`
	Certificates     []Certificate     `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"certificates,omitempty"`
	Products         []Product         `gorm:"foreignKey:FarmID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Certificate is a farm quality/organic certification record backed by an
// uploaded file. (farm_id, kind, issuer) is unique; duplicates surface as a
// conflict to the caller.
type Certificate struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FarmID     uuid.UUID  `gorm:"column:farm_id;type:uuid;not null;uniqueIndex:idx_certificates_farm_kind_issuer" json:"farmId"`
	Kind       string     `gorm:"column:kind;not null;uniqueIndex:idx_certificates_farm_kind_issuer" json:"kind"`
	Issuer     string     `gorm:"column:issuer;not null;uniqueIndex:idx_certificates_farm_kind_issuer" json:"issuer"`
	FilePath   string     `gorm:"column:file_path;not null" json:"filePath"`
	ValidUntil *time.Time `gorm:"column:valid_until" json:"validUntil,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
