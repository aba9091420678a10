package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// Offer is a company's bid on a farm product.
type Offer struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index" json:"productId"`
	CompanyID uuid.UUID         `gorm:"column:company_id;type:uuid;not null;index" json:"companyId"`
	UnitPrice decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Quantity  decimal.Decimal   `gorm:"column:quantity;type:numeric(12,2);not null" json:"quantity"`
	Message   *string           `gorm:"column:message" json:"message,omitempty"`
	Status    enums.OfferStatus `gorm:"column:status;type:text;not null;default:'beklemede'" json:"status"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Order records an accepted trade. CompletedAt anchors dashboard revenue
// windows; only completed orders count toward farm revenue.
type Order struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OfferID     *uuid.UUID        `gorm:"column:offer_id;type:uuid" json:"offerId,omitempty"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index" json:"productId"`
	FarmID      uuid.UUID         `gorm:"column:farm_id;type:uuid;not null;index" json:"farmId"`
	CompanyID   uuid.UUID         `gorm:"column:company_id;type:uuid;not null;index" json:"companyId"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(14,2);not null" json:"total"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'beklemede'" json:"status"`
	CompletedAt *time.Time        `gorm:"column:completed_at" json:"completedAt,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
