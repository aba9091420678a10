package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/orders"
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

func newStatsFixture(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := "file:dashboard_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Run(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	userRepo := users.NewRepository(conn)
	notifier, err := notifications.NewService(notifications.NewRepository(conn), userRepo)
	if err != nil {
		t.Fatalf("notifications service: %v", err)
	}
	svc, err := NewService(conn, userRepo, farms.NewRepository(conn), companies.NewRepository(conn), products.NewRepository(conn), orders.NewRepository(conn), applications.NewRepository(conn), notifier)
	if err != nil {
		t.Fatalf("dashboard service: %v", err)
	}
	return svc, conn
}

func seedStatsUser(t *testing.T, conn *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()
	user := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Status:       enums.UserStatusActive,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func seedCompletedOrder(t *testing.T, conn *gorm.DB, farmID, productID, companyID uuid.UUID, total int64, completedAt time.Time) {
	t.Helper()
	order := models.Order{
		ProductID:   productID,
		FarmID:      farmID,
		CompanyID:   companyID,
		Total:       decimal.NewFromInt(total),
		Status:      enums.OrderStatusCompleted,
		CompletedAt: &completedAt,
	}
	if err := conn.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
}

func TestParseTimeRange(t *testing.T) {
	for value, want := range map[string]TimeRange{
		"":      TimeRangeWeek,
		"hafta": TimeRangeWeek,
		"ay":    TimeRangeMonth,
		"yil":   TimeRangeYear,
	} {
		got, err := ParseTimeRange(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s got %s", value, want, got)
		}
	}

	_, err := ParseTimeRange("gunluk")
	if err == nil {
		t.Fatal("expected rejection of unknown range")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFarmStatsWindowsRevenue(t *testing.T) {
	svc, conn := newStatsFixture(t)
	ctx := context.Background()

	owner := seedStatsUser(t, conn, enums.UserRoleFarmer)
	farm := models.Farm{OwnerID: owner.ID, Name: "Çiftlik", Province: "Adana"}
	if err := conn.Create(&farm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}
	buyer := seedStatsUser(t, conn, enums.UserRoleCompany)
	company := models.Company{OwnerID: buyer.ID, TradeName: "Alıcı A.Ş.", TaxNumber: uuid.NewString()}
	if err := conn.Create(&company).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	product := models.Product{
		FarmID:   farm.ID,
		Name:     "Buğday",
		Category: enums.ProductCategoryGrain,
		Unit:     enums.ProductUnitTon,
		Price:    decimal.NewFromInt(9000),
		Quantity: decimal.NewFromInt(40),
		Status:   enums.ProductStatusActive,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	now := time.Now().UTC()
	seedCompletedOrder(t, conn, farm.ID, product.ID, company.ID, 100, now.Add(-48*time.Hour))
	seedCompletedOrder(t, conn, farm.ID, product.ID, company.ID, 50, now.Add(-30*24*time.Hour))

	weekly, err := svc.FarmStats(ctx, owner.ID, TimeRangeWeek)
	if err != nil {
		t.Fatalf("farm stats: %v", err)
	}
	if weekly.CompletedOrders != 1 {
		t.Fatalf("expected 1 completed order inside week, got %d", weekly.CompletedOrders)
	}
	if !weekly.TotalRevenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected weekly revenue 100 got %s", weekly.TotalRevenue)
	}
	if weekly.ActiveProducts != 1 {
		t.Fatalf("expected 1 active product got %d", weekly.ActiveProducts)
	}

	yearly, err := svc.FarmStats(ctx, owner.ID, TimeRangeYear)
	if err != nil {
		t.Fatalf("farm stats: %v", err)
	}
	if yearly.CompletedOrders != 2 {
		t.Fatalf("expected 2 completed orders inside year, got %d", yearly.CompletedOrders)
	}
	if !yearly.TotalRevenue.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected yearly revenue 150 got %s", yearly.TotalRevenue)
	}
}

func TestFarmStatsRequiresFarm(t *testing.T) {
	svc, conn := newStatsFixture(t)
	owner := seedStatsUser(t, conn, enums.UserRoleFarmer)

	_, err := svc.FarmStats(context.Background(), owner.ID, TimeRangeWeek)
	if err == nil {
		t.Fatal("expected not found without a farm")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthorityStatsCountsWorkload(t *testing.T) {
	svc, conn := newStatsFixture(t)
	ctx := context.Background()

	farmer := seedStatsUser(t, conn, enums.UserRoleFarmer)
	seedStatsUser(t, conn, enums.UserRoleCompany)
	seedStatsUser(t, conn, enums.UserRoleAuthority)

	farm := models.Farm{OwnerID: farmer.ID, Name: "Çiftlik", Province: "Adana"}
	if err := conn.Create(&farm).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}

	app := models.Application{
		Type:        enums.ApplicationTypeFarm,
		SubjectID:   farm.ID,
		ApplicantID: farmer.ID,
		Status:      enums.ApplicationStatusSubmitted,
		Documents: []models.Document{
			{
				DocumentTypeID: seededDocumentTypeID(t, conn),
				FilePath:       "farmer/doc.pdf",
				MimeType:       "application/pdf",
				SizeBytes:      10,
				Status:         enums.DocumentStatusPending,
			},
		},
	}
	if err := conn.Create(&app).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}

	stats, err := svc.AuthorityStats(ctx)
	if err != nil {
		t.Fatalf("authority stats: %v", err)
	}
	if stats.ApplicationsByStatus[enums.ApplicationStatusSubmitted] != 1 {
		t.Fatalf("expected 1 submitted application, got %d", stats.ApplicationsByStatus[enums.ApplicationStatusSubmitted])
	}
	if stats.UsersByRole[enums.UserRoleFarmer] != 1 || stats.UsersByRole[enums.UserRoleCompany] != 1 {
		t.Fatalf("unexpected role counts: %v", stats.UsersByRole)
	}
	if stats.FarmCount != 1 {
		t.Fatalf("expected 1 farm got %d", stats.FarmCount)
	}
	if stats.DocumentsInReview != 1 {
		t.Fatalf("expected 1 document in review got %d", stats.DocumentsInReview)
	}
}

func seededDocumentTypeID(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	var dt models.DocumentType
	if err := conn.First(&dt, "code = ?", "tapu").Error; err != nil {
		t.Fatalf("load document type: %v", err)
	}
	return dt.ID
}
