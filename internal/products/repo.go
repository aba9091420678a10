package products

import (
	"context"
	"errors"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/agropazar/agropazar-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes product listing persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product by primary key, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByFarm returns the farm's products, excluding soft-deleted rows unless
// includeDeleted is set (admin view).
func (r *Repository) ListByFarm(ctx context.Context, farmID uuid.UUID, includeDeleted bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("farm_id = ?", farmID)
	if !includeDeleted {
		query = query.Where("status <> ?", enums.ProductStatusDeleted)
	}

	var rows []models.Product
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type listMarketplaceParams struct {
	Category  *enums.ProductCategory
	WasteOnly bool
	Limit     int
	Cursor    *pagination.Cursor
}

// ListActive pages active listings for the company-facing marketplace.
func (r *Repository) ListActive(ctx context.Context, params listMarketplaceParams) ([]models.Product, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status = ?", enums.ProductStatusActive)
	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.WasteOnly {
		query = query.Where("is_waste = ?", true)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Product
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

// Update persists the provided column changes.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CountActiveByFarm reports the farm's live listings for the dashboard.
func (r *Repository) CountActiveByFarm(ctx context.Context, farmID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("farm_id = ? AND status = ?", farmID, enums.ProductStatusActive).
		Count(&count).Error
	return count, err
}
