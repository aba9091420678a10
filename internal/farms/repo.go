package farms

import (
	"context"
	"errors"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes farm profile and certificate persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a farms repo bound to the provided GORM DB.
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

// Create inserts a new farm row.
func (r *Repository) Create(ctx context.Context, farm *models.Farm) error {
	return r.db.WithContext(ctx).Create(farm).Error
}

// FindByOwner loads the user's farm with certificates, or nil when absent.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.WithContext(ctx).
		Preload("Certificates").
		Where("owner_id = ?", ownerID).
		First(&farm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// FindByID loads a farm by primary key, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	err := r.db.WithContext(ctx).
		Preload("Certificates").
		First(&farm, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &farm, nil
}

// Update persists the provided column changes.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Farm{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// AddCertificate inserts a certificate row. Duplicate (farm, kind, issuer)
// surfaces as the driver's unique violation for the caller to classify.
func (r *Repository) AddCertificate(ctx context.Context, cert *models.Certificate) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

// ListCertificates returns the farm's certificates, newest first.
func (r *Repository) ListCertificates(ctx context.Context, farmID uuid.UUID) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("created_at DESC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// FindCertificate loads one certificate scoped to its farm, or nil.
func (r *Repository) FindCertificate(ctx context.Context, farmID, certID uuid.UUID) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).
		Where("id = ? AND farm_id = ?", certID, farmID).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// DeleteCertificate removes a certificate row, reporting whether it existed.
func (r *Repository) DeleteCertificate(ctx context.Context, farmID, certID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND farm_id = ?", certID, farmID).
		Delete(&models.Certificate{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountAll reports the number of farms for the authority dashboard.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Farm{}).Count(&count).Error
	return count, err
}
