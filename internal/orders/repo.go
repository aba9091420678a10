package orders

import (
	"context"
	"errors"
	"time"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes offer and order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
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

// CreateOffer inserts a new offer row.
func (r *Repository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// FindOffer loads an offer by id, or nil when absent.
func (r *Repository) FindOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListOffersByProducts returns offers across the given products, optionally
// filtered by status, newest first.
func (r *Repository) ListOffersByProducts(ctx context.Context, productIDs []uuid.UUID, status *enums.OfferStatus) ([]models.Offer, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Where("product_id IN ?", productIDs)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Offer
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOffersByCompany returns the company's own offers, newest first.
func (r *Repository) ListOffersByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Offer, error) {
	var rows []models.Offer
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOffer persists offer status changes.
func (r *Repository) UpdateOffer(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CreateOrder inserts a new order row.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindOrder loads an order by id, or nil when absent.
func (r *Repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByFarm returns the farm's orders, optionally filtered by status.
func (r *Repository) ListOrdersByFarm(ctx context.Context, farmID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Where("farm_id = ?", farmID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOrdersByCompany returns the company's orders, optionally filtered by
// status.
func (r *Repository) ListOrdersByCompany(ctx context.Context, companyID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateOrder persists order status changes.
func (r *Repository) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CompletedStats aggregates completed orders for a farm inside a window.
type CompletedStats struct {
	Count   int64
	Revenue decimal.Decimal
}

// CompletedStatsByFarm sums completed orders whose completion timestamp
// falls inside [since, now].
func (r *Repository) CompletedStatsByFarm(ctx context.Context, farmID uuid.UUID, since time.Time) (CompletedStats, error) {
	type row struct {
		Count   int64
		Revenue decimal.Decimal
	}
	var result row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("count(*) as count, coalesce(sum(total), 0) as revenue").
		Where("farm_id = ? AND status = ? AND completed_at >= ?", farmID, enums.OrderStatusCompleted, since).
		Scan(&result).Error
	if err != nil {
		return CompletedStats{}, err
	}
	return CompletedStats{Count: result.Count, Revenue: result.Revenue}, nil
}
