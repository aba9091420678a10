package orders

import (
	"context"
	"time"

	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/products"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service covers offers on farm products and the orders accepted from them.
type Service struct {
	conn      *gorm.DB
	repo      *Repository
	farms     *farms.Repository
	companies *companies.Repository
	products  *products.Repository
	notifier  notifications.Service
	now       func() time.Time
}

// NewService wires the orders service.
func NewService(conn *gorm.DB, repo *Repository, farmRepo *farms.Repository, companyRepo *companies.Repository, productRepo *products.Repository, notifier notifications.Service) (*Service, error) {
	if conn == nil || repo == nil || farmRepo == nil || companyRepo == nil || productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders service dependencies missing")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification service required")
	}
	return &Service{
		conn:      conn,
		repo:      repo,
		farms:     farmRepo,
		companies: companyRepo,
		products:  productRepo,
		notifier:  notifier,
		now:       time.Now,
	}, nil
}

// CreateOfferInput is a company's bid on an active product.
type CreateOfferInput struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Message   *string         `json:"message" validate:"omitempty,max=1000"`
}

// CreateOffer files a bid from the company owner on an active listing and
// notifies the farm owner.
func (s *Service) CreateOffer(ctx context.Context, companyOwnerID uuid.UUID, input CreateOfferInput) (*models.Offer, error) {
	if input.UnitPrice.IsNegative() || !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer price and quantity must be positive")
	}

	company, err := s.ownCompany(ctx, companyOwnerID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil || product.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	farm, err := s.farms.FindByID(ctx, product.FarmID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	offer := models.Offer{
		ProductID: product.ID,
		CompanyID: company.ID,
		UnitPrice: input.UnitPrice,
		Quantity:  input.Quantity,
		Message:   input.Message,
		Status:    enums.OfferStatusPending,
	}
	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateOffer(ctx, &offer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
		}
		link := "/ciftlik/teklifler"
		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:       farm.OwnerID,
			CategoryCode: enums.NotificationCodeOffer,
			Title:        "Yeni teklif",
			Message:      company.TradeName + " ürününüze teklif verdi: " + product.Name,
			Link:         &link,
		})
	})
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListFarmOffers returns offers across the farmer's products.
func (s *Service) ListFarmOffers(ctx context.Context, farmOwnerID uuid.UUID, status *enums.OfferStatus) ([]models.Offer, error) {
	farm, err := s.ownFarm(ctx, farmOwnerID)
	if err != nil {
		return nil, err
	}
	listings, err := s.products.ListByFarm(ctx, farm.ID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	ids := make([]uuid.UUID, 0, len(listings))
	for _, product := range listings {
		ids = append(ids, product.ID)
	}

	offers, err := s.repo.ListOffersByProducts(ctx, ids, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	return offers, nil
}

// ListCompanyOffers returns the company owner's own offers.
func (s *Service) ListCompanyOffers(ctx context.Context, companyOwnerID uuid.UUID) ([]models.Offer, error) {
	company, err := s.ownCompany(ctx, companyOwnerID)
	if err != nil {
		return nil, err
	}
	offers, err := s.repo.ListOffersByCompany(ctx, company.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	return offers, nil
}

// AcceptOffer accepts a pending offer on the farmer's product and creates
// the resulting order in the same transaction. The offering company is
// notified.
func (s *Service) AcceptOffer(ctx context.Context, farmOwnerID, offerID uuid.UUID) (*models.Order, error) {
	farm, offer, product, err := s.ownedOffer(ctx, farmOwnerID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != enums.OfferStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer pending")
	}

	company, err := s.companies.FindByID(ctx, offer.CompanyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if company == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}

	order := models.Order{
		OfferID:   &offer.ID,
		ProductID: product.ID,
		FarmID:    farm.ID,
		CompanyID: company.ID,
		Total:     offer.UnitPrice.Mul(offer.Quantity),
		Status:    enums.OrderStatusConfirmed,
	}
	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		err := repo.UpdateOffer(ctx, offer.ID, map[string]any{"status": enums.OfferStatusAccepted})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer")
		}
		if err := repo.CreateOrder(ctx, &order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		link := "/firma/siparisler"
		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:       company.OwnerID,
			CategoryCode: enums.NotificationCodeOrder,
			Title:        "Teklifiniz kabul edildi",
			Message:      "Teklifiniz kabul edildi, sipariş oluşturuldu: " + product.Name,
			Link:         &link,
		})
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeclineOffer declines a pending offer on the farmer's product.
func (s *Service) DeclineOffer(ctx context.Context, farmOwnerID, offerID uuid.UUID) error {
	_, offer, _, err := s.ownedOffer(ctx, farmOwnerID, offerID)
	if err != nil {
		return err
	}
	if offer.Status != enums.OfferStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer pending")
	}
	err = s.repo.UpdateOffer(ctx, offer.ID, map[string]any{"status": enums.OfferStatusDeclined})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer")
	}
	return nil
}

// ListFarmOrders returns the farmer's orders with an optional status filter.
func (s *Service) ListFarmOrders(ctx context.Context, farmOwnerID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	farm, err := s.ownFarm(ctx, farmOwnerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOrdersByFarm(ctx, farm.ID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// ListCompanyOrders returns the company owner's orders with an optional
// status filter.
func (s *Service) ListCompanyOrders(ctx context.Context, companyOwnerID uuid.UUID, status *enums.OrderStatus) ([]models.Order, error) {
	company, err := s.ownCompany(ctx, companyOwnerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListOrdersByCompany(ctx, company.ID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// CompleteOrder marks a confirmed or shipped order as completed, stamping
// the completion time that anchors dashboard revenue windows.
func (s *Service) CompleteOrder(ctx context.Context, farmOwnerID, orderID uuid.UUID) (*models.Order, error) {
	farm, err := s.ownFarm(ctx, farmOwnerID)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil || order.FarmID != farm.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status != enums.OrderStatusConfirmed && order.Status != enums.OrderStatusShipped {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order cannot be completed in its current state")
	}

	now := s.now().UTC()
	err = s.repo.UpdateOrder(ctx, order.ID, map[string]any{
		"status":       enums.OrderStatusCompleted,
		"completed_at": now,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}

	order.Status = enums.OrderStatusCompleted
	order.CompletedAt = &now
	return order, nil
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

func (s *Service) ownCompany(ctx context.Context, ownerID uuid.UUID) (*models.Company, error) {
	company, err := s.companies.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if company == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
	}
	return company, nil
}

func (s *Service) ownedOffer(ctx context.Context, farmOwnerID, offerID uuid.UUID) (*models.Farm, *models.Offer, *models.Product, error) {
	farm, err := s.ownFarm(ctx, farmOwnerID)
	if err != nil {
		return nil, nil, nil, err
	}
	offer, err := s.repo.FindOffer(ctx, offerID)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if offer == nil {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	product, err := s.products.FindByID(ctx, offer.ProductID)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil || product.FarmID != farm.ID {
		return nil, nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return farm, offer, product, nil
}
