package applications

import (
	"context"
	"errors"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/agropazar/agropazar-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence for review applications and their documents.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an applications repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new application row, including any attached documents.
func (r *Repository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// FindByID loads an application with its documents, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Documents").
		First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// LatestByApplicant returns the applicant's most recent application of the
// given type, or nil. Used by the auth middleware's pending-account exception
// and by the farmer's own status view.
func (r *Repository) LatestByApplicant(ctx context.Context, applicantID uuid.UUID, appType enums.ApplicationType) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("applicant_id = ? AND type = ?", applicantID, appType).
		Order("created_at DESC").
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

type listApplicationsParams struct {
	Status *enums.ApplicationStatus
	Type   *enums.ApplicationType
	Limit  int
	Cursor *pagination.Cursor
}

// List pages the authority's review queue, newest first.
func (r *Repository) List(ctx context.Context, params listApplicationsParams) ([]models.Application, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Application{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&apps).Error; err != nil {
		return nil, nil, err
	}

	if len(apps) > normalized {
		next := apps[normalized]
		apps = apps[:normalized]
		return apps, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return apps, nil, nil
}

// ListByApplicant returns every application the user has filed, newest first.
func (r *Repository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// CountByStatus groups application counts per status for the authority
// dashboard.
func (r *Repository) CountByStatus(ctx context.Context) (map[enums.ApplicationStatus]int64, error) {
	type row struct {
		Status enums.ApplicationStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.ApplicationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// UpdateApplication persists status and review metadata changes.
func (r *Repository) UpdateApplication(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindDocument loads a single document scoped to its application, or nil.
func (r *Repository) FindDocument(ctx context.Context, applicationID, documentID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Where("id = ? AND application_id = ?", documentID, applicationID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument persists per-document review state changes.
func (r *Repository) UpdateDocument(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CountMissingDocuments reports how many of the application's documents are
// still flagged missing.
func (r *Repository) CountMissingDocuments(ctx context.Context, applicationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("application_id = ? AND status = ?", applicationID, enums.DocumentStatusMissing).
		Count(&count).Error
	return count, err
}

// FindDocumentTypeByCode resolves a document-type lookup row, or nil.
func (r *Repository) FindDocumentTypeByCode(ctx context.Context, code string) (*models.DocumentType, error) {
	var dt models.DocumentType
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&dt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

// Delete removes the application row. Document rows cascade at the database
// level; callers that need file cleanup must collect paths first.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id).Error
}

// DeleteDocumentsByApplication removes all document rows of an application.
// Kept explicit so sqlite-backed tests do not depend on cascade support.
func (r *Repository) DeleteDocumentsByApplication(ctx context.Context, applicationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Delete(&models.Document{}).Error
}
