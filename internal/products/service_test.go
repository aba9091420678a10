package products

import (
	"context"
	"io"
	"testing"

	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/users"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopRemover struct{}

func (noopRemover) Remove(string) error { return nil }

type listingFixture struct {
	conn  *gorm.DB
	svc   *Service
	owner *models.User
	farm  *models.Farm
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	apps, err := applications.NewService(conn, applications.NewRepository(conn), notifier, noopRemover{}, logg)
	if err != nil {
		t.Fatalf("applications service: %v", err)
	}
	svc, err := NewService(conn, NewRepository(conn), farms.NewRepository(conn), apps)
	if err != nil {
		t.Fatalf("products service: %v", err)
	}

	owner := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.UserRoleFarmer,
		Status:       enums.UserStatusActive,
	}
	if err := conn.Create(&owner).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	farm := models.Farm{OwnerID: owner.ID, Name: "Çiftlik", Province: "Antalya"}
	if err := conn.Create(&farm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}
	return &listingFixture{conn: conn, svc: svc, owner: &owner, farm: &farm}
}

func TestCreateStartsAsDraft(t *testing.T) {
	f := newListingFixture(t)

	product, err := f.svc.Create(context.Background(), f.owner.ID, CreateInput{
		Name:     "Portakal",
		Category: "meyve",
		Unit:     "kg",
		Price:    decimal.NewFromInt(15),
		Quantity: decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.Status != enums.ProductStatusDraft {
		t.Fatalf("expected draft got %s", product.Status)
	}
	if product.FarmID != f.farm.ID {
		t.Fatalf("product bound to wrong farm: %s", product.FarmID)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	f := newListingFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner.ID, CreateInput{
		Name:     "Portakal",
		Category: "narenciye",
		Unit:     "kg",
		Price:    decimal.NewFromInt(15),
		Quantity: decimal.NewFromInt(800),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitForReviewFilesApplication(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.owner.ID, CreateInput{
		Name:     "Portakal",
		Category: "meyve",
		Unit:     "kg",
		Price:    decimal.NewFromInt(15),
		Quantity: decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	app, err := f.svc.SubmitForReview(ctx, f.owner.ID, product.ID)
	if err != nil {
		t.Fatalf("submit for review: %v", err)
	}
	if app.Type != enums.ApplicationTypeProduct || app.SubjectID != product.ID {
		t.Fatalf("unexpected application subject: %+v", app)
	}
	if app.Status != enums.ApplicationStatusSubmitted {
		t.Fatalf("expected submitted application got %s", app.Status)
	}

	reloaded, err := f.svc.repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.Status != enums.ProductStatusPendingReview {
		t.Fatalf("expected pending review got %s", reloaded.Status)
	}

	// Resubmitting a non-draft listing conflicts.
	if _, err := f.svc.SubmitForReview(ctx, f.owner.ID, product.ID); err == nil {
		t.Fatal("expected second submission to conflict")
	}
}

func TestMarketplaceShowsOnlyActiveListings(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	seed := func(name string, category enums.ProductCategory, status enums.ProductStatus, waste bool) {
		product := models.Product{
			FarmID:   f.farm.ID,
			Name:     name,
			Category: category,
			Unit:     enums.ProductUnitKilogram,
			Price:    decimal.NewFromInt(10),
			Quantity: decimal.NewFromInt(100),
			IsWaste:  waste,
			Status:   status,
		}
		if err := f.conn.Create(&product).Error; err != nil {
			t.Fatalf("create product: %v", err)
		}
	}
	seed("Domates", enums.ProductCategoryVegetable, enums.ProductStatusActive, false)
	seed("Elma", enums.ProductCategoryFruit, enums.ProductStatusActive, false)
	seed("Sap Samanı", enums.ProductCategoryWaste, enums.ProductStatusActive, true)
	seed("Taslak Ürün", enums.ProductCategoryVegetable, enums.ProductStatusDraft, false)
	seed("Silinmiş Ürün", enums.ProductCategoryVegetable, enums.ProductStatusDeleted, false)

	all, err := f.svc.ListMarketplace(ctx, MarketplaceParams{})
	if err != nil {
		t.Fatalf("list marketplace: %v", err)
	}
	if len(all.Items) != 3 {
		t.Fatalf("expected 3 active listings got %d", len(all.Items))
	}

	waste, err := f.svc.ListMarketplace(ctx, MarketplaceParams{WasteOnly: true})
	if err != nil {
		t.Fatalf("list waste: %v", err)
	}
	if len(waste.Items) != 1 || waste.Items[0].Name != "Sap Samanı" {
		t.Fatalf("expected only the waste listing, got %+v", waste.Items)
	}

	fruit, err := f.svc.ListMarketplace(ctx, MarketplaceParams{Category: "meyve"})
	if err != nil {
		t.Fatalf("list fruit: %v", err)
	}
	if len(fruit.Items) != 1 || fruit.Items[0].Name != "Elma" {
		t.Fatalf("expected only fruit, got %+v", fruit.Items)
	}

	_, err = f.svc.ListMarketplace(ctx, MarketplaceParams{Category: "narenciye"})
	if err == nil {
		t.Fatal("expected unknown category rejection")
	}
}

func TestUpdateAndSoftDelete(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.owner.ID, CreateInput{
		Name:     "Süt",
		Category: "sut_urunleri",
		Unit:     "litre",
		Price:    decimal.NewFromInt(30),
		Quantity: decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newPrice := decimal.NewFromInt(35)
	updated, err := f.svc.Update(ctx, f.owner.ID, product.ID, UpdateInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if !updated.Price.Equal(newPrice) {
		t.Fatalf("expected price %s got %s", newPrice, updated.Price)
	}

	if err := f.svc.Delete(ctx, f.owner.ID, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := f.svc.Update(ctx, f.owner.ID, product.ID, UpdateInput{Price: &newPrice}); err == nil {
		t.Fatal("expected deleted listing to be unreachable")
	}

	listings, err := f.svc.ListOwn(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("expected soft-deleted listing to be hidden, got %d", len(listings))
	}
}

func TestOwnershipScopedToFarm(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, f.owner.ID, CreateInput{
		Name:     "Portakal",
		Category: "meyve",
		Unit:     "kg",
		Price:    decimal.NewFromInt(15),
		Quantity: decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	other := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.UserRoleFarmer,
		Status:       enums.UserStatusActive,
	}
	if err := f.conn.Create(&other).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	otherFarm := models.Farm{OwnerID: other.ID, Name: "Başka Çiftlik", Province: "Mersin"}
	if err := f.conn.Create(&otherFarm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}

	err = f.svc.Delete(ctx, other.ID, product.ID)
	if err == nil {
		t.Fatal("expected foreign farmer to get not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
