package companies

import (
	"context"
	"errors"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes company profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a companies repo bound to the provided GORM DB.
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

// Create inserts a new company row.
func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// FindByOwner loads the user's company, or nil when absent.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// FindByID loads a company by primary key, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Update persists the provided column changes.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CountAll reports the number of companies for the authority dashboard.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error
	return count, err
}
