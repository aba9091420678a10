package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// Application is the review envelope wrapping a farm or product awaiting an
// authority decision. Type + SubjectID form the tagged variant: Type picks
// the table SubjectID points at.
type Application struct {
	ID          uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	Type        enums.ApplicationType   `gorm:"column:type;type:text;not null;index:idx_applications_type_subject" json:"type"`
	SubjectID   uuid.UUID               `gorm:"column:subject_id;type:uuid;not null;index:idx_applications_type_subject" json:"subjectId"`
	ApplicantID uuid.UUID               `gorm:"column:applicant_id;type:uuid;not null;index" json:"applicantId"`
	Status      enums.ApplicationStatus `gorm:"column:status;type:text;not null;default:'beklemede'" json:"status"`
	AdminNote   *string                 `gorm:"column:admin_note" json:"adminNote,omitempty"`
	ReviewedBy  *uuid.UUID              `gorm:"column:reviewed_by;type:uuid" json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time              `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	Documents   []Document              `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
