package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// Document is an uploaded file carrying its own review state. It belongs to
// exactly one owner: either an application (ApplicationID set) or a farm /
// company profile (OwnerType + OwnerID set).
type Document struct {
	ID             uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID  *uuid.UUID               `gorm:"column:application_id;type:uuid;index" json:"applicationId,omitempty"`
	OwnerType      *enums.DocumentOwnerType `gorm:"column:owner_type;type:text" json:"ownerType,omitempty"`
	OwnerID        *uuid.UUID               `gorm:"column:owner_id;type:uuid" json:"ownerId,omitempty"`
	DocumentTypeID uuid.UUID                `gorm:"column:document_type_id;type:uuid;not null" json:"documentTypeId"`
	FilePath       string                   `gorm:"column:file_path;not null" json:"filePath"`
	MimeType       string                   `gorm:"column:mime_type;not null" json:"mimeType"`
	SizeBytes      int64                    `gorm:"column:size_bytes;not null" json:"sizeBytes"`
	Status         enums.DocumentStatus     `gorm:"column:status;type:text;not null;default:'beklemede'" json:"status"`
	ReviewNote     *string                  `gorm:"column:review_note" json:"reviewNote,omitempty"`
	ReviewedBy     *uuid.UUID               `gorm:"column:reviewed_by;type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time               `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// DocumentType is the lookup table of required/optional document kinds.
type DocumentType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code      string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Mandatory bool      `gorm:"column:mandatory;not null;default:false" json:"mandatory"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
