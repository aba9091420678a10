package products

import (
	"context"

	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service covers the product listing lifecycle: draft, review submission,
// activation, and soft deletion.
type Service struct {
	conn  *gorm.DB
	repo  *Repository
	farms *farms.Repository
	apps  *applications.Service
}

// NewService wires the products service.
func NewService(conn *gorm.DB, repo *Repository, farmRepo *farms.Repository, apps *applications.Service) (*Service, error) {
	if conn == nil || repo == nil || farmRepo == nil || apps == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products service dependencies missing")
	}
	return &Service{conn: conn, repo: repo, farms: farmRepo, apps: apps}, nil
}

// CreateInput is a new draft listing.
type CreateInput struct {
	Name        string          `json:"name" validate:"required,min=2,max=160"`
	Description *string         `json:"description" validate:"omitempty,max=2000"`
	Category    string          `json:"category" validate:"required"`
	Unit        string          `json:"unit" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	IsWaste     bool            `json:"isWaste"`
}

// Create stores a draft listing on the owner's farm.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Product, error) {
	category, err := enums.ParseProductCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	unit, err := enums.ParseProductUnit(input.Unit)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Price.IsNegative() || input.Quantity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price and quantity must not be negative")
	}

	farm, err := s.ownFarm(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		FarmID:      farm.ID,
		Name:        input.Name,
		Description: input.Description,
		Category:    category,
		Unit:        unit,
		Price:       input.Price,
		Quantity:    input.Quantity,
		IsWaste:     input.IsWaste,
		Status:      enums.ProductStatusDraft,
	}
	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return &product, nil
}

// ListOwn returns the farmer's own listings, soft-deleted rows excluded.
func (s *Service) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	farm, err := s.ownFarm(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByFarm(ctx, farm.ID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// ListByFarmAdmin returns every listing of a farm, deleted rows included.
func (s *Service) ListByFarmAdmin(ctx context.Context, farmID uuid.UUID) ([]models.Product, error) {
	rows, err := s.repo.ListByFarm(ctx, farmID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// MarketplaceParams filters the company-facing listing view.
type MarketplaceParams struct {
	Category  string
	WasteOnly bool
	Limit     int
	Cursor    string
}

// MarketplaceResult is one page of active listings.
type MarketplaceResult struct {
	Items  []models.Product `json:"items"`
	Cursor string           `json:"cursor"`
}

// ListMarketplace pages active listings for companies.
func (s *Service) ListMarketplace(ctx context.Context, params MarketplaceParams) (*MarketplaceResult, error) {
	query := listMarketplaceParams{
		WasteOnly: params.WasteOnly,
		Limit:     params.Limit,
	}
	if params.Category != "" {
		category, err := enums.ParseProductCategory(params.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		query.Category = &category
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListActive(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &MarketplaceResult{Items: rows, Cursor: cursor}, nil
}

// UpdateInput carries the owner-editable listing fields. Nil fields are left
// untouched.
type UpdateInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=160"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *decimal.Decimal `json:"quantity"`
}

// Update applies listing changes on the owner's product. Deleted listings
// cannot be edited.
func (s *Service) Update(ctx context.Context, ownerID, productID uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.owned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if product.Status == enums.ProductStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.Quantity != nil {
		if input.Quantity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
		}
		updates["quantity"] = *input.Quantity
	}
	if len(updates) == 0 {
		return product, nil
	}

	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	updated, err := s.repo.FindByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return updated, nil
}

// SubmitForReview moves a draft listing into review and files the product
// application in the same transaction.
func (s *Service) SubmitForReview(ctx context.Context, ownerID, productID uuid.UUID) (*models.Application, error) {
	product, err := s.owned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != enums.ProductStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft products can be submitted for review")
	}

	var app *models.Application
	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		err := s.repo.WithTx(tx).Update(ctx, product.ID, map[string]any{
			"status": enums.ProductStatusPendingReview,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}

		created, err := s.apps.SubmitTx(ctx, tx, applications.SubmitInput{
			Type:        enums.ApplicationTypeProduct,
			SubjectID:   product.ID,
			ApplicantID: ownerID,
		})
		if err != nil {
			return err
		}
		app = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Delete soft-deletes the owner's listing.
func (s *Service) Delete(ctx context.Context, ownerID, productID uuid.UUID) error {
	product, err := s.owned(ctx, ownerID, productID)
	if err != nil {
		return err
	}
	if product.Status == enums.ProductStatusDeleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	err = s.repo.Update(ctx, product.ID, map[string]any{"status": enums.ProductStatusDeleted})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *Service) ownFarm(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farms.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}
	return farm, nil
}

func (s *Service) owned(ctx context.Context, ownerID, productID uuid.UUID) (*models.Product, error) {
	farm, err := s.ownFarm(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil || product.FarmID != farm.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}
