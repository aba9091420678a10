package orders

import (
	"context"
	"testing"

	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/products"
	"github.com/agropazar/agropazar-backend/internal/users"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type tradeFixture struct {
	conn      *gorm.DB
	svc       *Service
	farmOwner *models.User
	farm      *models.Farm
	buyer     *models.User
	company   *models.Company
	product   *models.Product
}

func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Run(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notifier, err := notifications.NewService(notifications.NewRepository(conn), users.NewRepository(conn))
	if err != nil {
		t.Fatalf("notifications service: %v", err)
	}
	svc, err := NewService(conn, NewRepository(conn), farms.NewRepository(conn), companies.NewRepository(conn), products.NewRepository(conn), notifier)
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}

	f := &tradeFixture{conn: conn, svc: svc}
	f.farmOwner = f.createUser(t, enums.UserRoleFarmer)
	f.farm = &models.Farm{OwnerID: f.farmOwner.ID, Name: "Deneme Çiftliği", Province: "Bursa"}
	if err := conn.Create(f.farm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}
	f.buyer = f.createUser(t, enums.UserRoleCompany)
	f.company = &models.Company{OwnerID: f.buyer.ID, TradeName: "Deneme Gıda A.Ş.", TaxNumber: uuid.NewString()}
	if err := conn.Create(f.company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	f.product = f.createProduct(t, enums.ProductStatusActive)
	return f
}

func (f *tradeFixture) createUser(t *testing.T, role enums.UserRole) *models.User {
	t.Helper()
	user := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Status:       enums.UserStatusActive,
	}
	if err := f.conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func (f *tradeFixture) createProduct(t *testing.T, status enums.ProductStatus) *models.Product {
	t.Helper()
	product := models.Product{
		FarmID:   f.farm.ID,
		Name:     "Domates",
		Category: enums.ProductCategoryVegetable,
		Unit:     enums.ProductUnitKilogram,
		Price:    decimal.NewFromInt(12),
		Quantity: decimal.NewFromInt(500),
		Status:   status,
	}
	if err := f.conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &product
}

func TestCreateOfferRequiresActiveProduct(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	draft := f.createProduct(t, enums.ProductStatusDraft)

	_, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
		ProductID: draft.ID,
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  decimal.NewFromInt(100),
	})
	if err == nil {
		t.Fatal("expected offer on draft product to fail")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateOfferRejectsNonPositiveQuantity(t *testing.T) {
	f := newTradeFixture(t)

	_, err := f.svc.CreateOffer(context.Background(), f.buyer.ID, CreateOfferInput{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromInt(10),
		Quantity:  decimal.Zero,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOfferNotifiesFarmOwner(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	offer, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromFloat(11.50),
		Quantity:  decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if offer.Status != enums.OfferStatusPending {
		t.Fatalf("expected pending offer, got %s", offer.Status)
	}
	if offer.CompanyID != f.company.ID {
		t.Fatalf("offer bound to wrong company: %s", offer.CompanyID)
	}

	var count int64
	if err := f.conn.Model(&models.Notification{}).Where("user_id = ?", f.farmOwner.ID).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected farm owner notification, got %d", count)
	}
}

func TestAcceptOfferCreatesOrder(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	offer, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromFloat(11.50),
		Quantity:  decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	order, err := f.svc.AcceptOffer(ctx, f.farmOwner.ID, offer.ID)
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}
	if order.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed order, got %s", order.Status)
	}
	want := decimal.NewFromFloat(11.50).Mul(decimal.NewFromInt(200))
	if !order.Total.Equal(want) {
		t.Fatalf("expected total %s got %s", want, order.Total)
	}

	var stored models.Offer
	if err := f.conn.First(&stored, "id = ?", offer.ID).Error; err != nil {
		t.Fatalf("reload offer: %v", err)
	}
	if stored.Status != enums.OfferStatusAccepted {
		t.Fatalf("expected accepted offer, got %s", stored.Status)
	}

	// Accepting twice conflicts.
	if _, err := f.svc.AcceptOffer(ctx, f.farmOwner.ID, offer.ID); err == nil {
		t.Fatal("expected second accept to conflict")
	}

	var count int64
	if err := f.conn.Model(&models.Notification{}).Where("user_id = ?", f.buyer.ID).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected buyer notification, got %d", count)
	}
}

func TestDeclineOffer(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	offer, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromInt(9),
		Quantity:  decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	if err := f.svc.DeclineOffer(ctx, f.farmOwner.ID, offer.ID); err != nil {
		t.Fatalf("decline offer: %v", err)
	}
	var stored models.Offer
	if err := f.conn.First(&stored, "id = ?", offer.ID).Error; err != nil {
		t.Fatalf("reload offer: %v", err)
	}
	if stored.Status != enums.OfferStatusDeclined {
		t.Fatalf("expected declined offer, got %s", stored.Status)
	}

	if _, err := f.svc.AcceptOffer(ctx, f.farmOwner.ID, offer.ID); err == nil {
		t.Fatal("expected accept after decline to conflict")
	}
}

func TestOfferOwnershipScopedToFarm(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	offer, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromInt(9),
		Quantity:  decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}

	otherOwner := f.createUser(t, enums.UserRoleFarmer)
	otherFarm := models.Farm{OwnerID: otherOwner.ID, Name: "Başka Çiftlik", Province: "İzmir"}
	if err := f.conn.Create(&otherFarm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}

	_, err = f.svc.AcceptOffer(ctx, otherOwner.ID, offer.ID)
	if err == nil {
		t.Fatal("expected foreign farmer to get not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteOrderStampsCompletion(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	offer, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
		ProductID: f.product.ID,
		UnitPrice: decimal.NewFromInt(20),
		Quantity:  decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	order, err := f.svc.AcceptOffer(ctx, f.farmOwner.ID, offer.ID)
	if err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	completed, err := f.svc.CompleteOrder(ctx, f.farmOwner.ID, order.ID)
	if err != nil {
		t.Fatalf("complete order: %v", err)
	}
	if completed.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed order, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}

	_, err = f.svc.CompleteOrder(ctx, f.farmOwner.ID, order.ID)
	if err == nil {
		t.Fatal("expected second completion to conflict")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestListFarmOrdersFiltersByStatus(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		offer, err := f.svc.CreateOffer(ctx, f.buyer.ID, CreateOfferInput{
			ProductID: f.product.ID,
			UnitPrice: decimal.NewFromInt(20),
			Quantity:  decimal.NewFromInt(10),
		})
		if err != nil {
			t.Fatalf("create offer: %v", err)
		}
		if _, err := f.svc.AcceptOffer(ctx, f.farmOwner.ID, offer.ID); err != nil {
			t.Fatalf("accept offer: %v", err)
		}
	}
	all, err := f.svc.ListFarmOrders(ctx, f.farmOwner.ID, nil)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders got %d", len(all))
	}

	if _, err := f.svc.CompleteOrder(ctx, f.farmOwner.ID, all[0].ID); err != nil {
		t.Fatalf("complete order: %v", err)
	}

	status := enums.OrderStatusCompleted
	completed, err := f.svc.ListFarmOrders(ctx, f.farmOwner.ID, &status)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed order got %d", len(completed))
	}

	buyerOrders, err := f.svc.ListCompanyOrders(ctx, f.buyer.ID, nil)
	if err != nil {
		t.Fatalf("list company orders: %v", err)
	}
	if len(buyerOrders) != 2 {
		t.Fatalf("expected 2 company orders got %d", len(buyerOrders))
	}
}
