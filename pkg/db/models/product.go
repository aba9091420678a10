package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// Product is a farm listing, covering both regular produce and waste
// byproducts (IsWaste). Listings are soft-deleted via Status.
type Product struct {
	ID          uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	FarmID      uuid.UUID             `gorm:"column:farm_id;type:uuid;not null;index" json:"farmId"`
	Name        string                `gorm:"column:name;not null" json:"name"`
	Description *string               `gorm:"column:description" json:"description,omitempty"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null" json:"category"`
	Unit        enums.ProductUnit     `gorm:"column:unit;type:text;not null" json:"unit"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Quantity    decimal.Decimal       `gorm:"column:quantity;type:numeric(12,2);not null" json:"quantity"`
	IsWaste     bool                  `gorm:"column:is_waste;not null;default:false" json:"isWaste"`
	Status      enums.ProductStatus   `gorm:"column:status;type:text;not null;default:'taslak'" json:"status"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
