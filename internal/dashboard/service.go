package dashboard

import (
	"context"
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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TimeRange selects the dashboard aggregation window.
type TimeRange string

const (
	TimeRangeWeek  TimeRange = "hafta"
	TimeRangeMonth TimeRange = "ay"
	TimeRangeYear  TimeRange = "yil"
)

// Duration maps the range onto its window length.
func (t TimeRange) Duration() time.Duration {
	switch t {
	case TimeRangeMonth:
		return 30 * 24 * time.Hour
	case TimeRangeYear:
		return 365 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// ParseTimeRange validates a query value, defaulting to the weekly window.
func ParseTimeRange(value string) (TimeRange, error) {
	switch value {
	case "", string(TimeRangeWeek):
		return TimeRangeWeek, nil
	case string(TimeRangeMonth):
		return TimeRangeMonth, nil
	case string(TimeRangeYear):
		return TimeRangeYear, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "timeRange must be one of hafta, ay, yil")
	}
}

// Service aggregates panel statistics for farmers and the authority.
type Service struct {
	conn          *gorm.DB
	users         *users.Repository
	farms         *farms.Repository
	companies     *companies.Repository
	products      *products.Repository
	orders        *orders.Repository
	applications  *applications.Repository
	notifications notifications.Service
	now           func() time.Time
}

// NewService wires the dashboard service.
func NewService(conn *gorm.DB, userRepo *users.Repository, farmRepo *farms.Repository, companyRepo *companies.Repository, productRepo *products.Repository, orderRepo *orders.Repository, appRepo *applications.Repository, notifier notifications.Service) (*Service, error) {
	if conn == nil || userRepo == nil || farmRepo == nil || companyRepo == nil || productRepo == nil || orderRepo == nil || appRepo == nil || notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard service dependencies missing")
	}
	return &Service{
		conn:          conn,
		users:         userRepo,
		farms:         farmRepo,
		companies:     companyRepo,
		products:      productRepo,
		orders:        orderRepo,
		applications:  appRepo,
		notifications: notifier,
		now:           time.Now,
	}, nil
}

// FarmStats is the farm panel summary for one window.
type FarmStats struct {
	TimeRange           TimeRange       `json:"timeRange"`
	CompletedOrders     int64           `json:"tamamlananSiparis"`
	TotalRevenue        decimal.Decimal `json:"toplamGelir"`
	ActiveProducts      int64           `json:"aktifUrun"`
	PendingApplications int64           `json:"bekleyenBasvuru"`
	UnreadNotifications int64           `json:"okunmamisBildirim"`
}

// FarmStats computes the farmer's dashboard inside the requested window.
// Revenue counts only orders completed within the window.
func (s *Service) FarmStats(ctx context.Context, ownerID uuid.UUID, timeRange TimeRange) (*FarmStats, error) {
	farm, err := s.farms.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}

	since := s.now().UTC().Add(-timeRange.Duration())

	completed, err := s.orders.CompletedStatsByFarm(ctx, farm.ID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate orders")
	}

	activeProducts, err := s.products.CountActiveByFarm(ctx, farm.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}

	pendingApps, err := s.countPendingApplications(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifications.UnreadCount(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &FarmStats{
		TimeRange:           timeRange,
		CompletedOrders:     completed.Count,
		TotalRevenue:        completed.Revenue,
		ActiveProducts:      activeProducts,
		PendingApplications: pendingApps,
		UnreadNotifications: unread,
	}, nil
}

// AuthorityStats is the authority panel summary.
type AuthorityStats struct {
	ApplicationsByStatus map[enums.ApplicationStatus]int64 `json:"basvuruDurumlari"`
	UsersByRole          map[enums.UserRole]int64          `json:"kullaniciSayilari"`
	FarmCount            int64                             `json:"ciftlikSayisi"`
	CompanyCount         int64                             `json:"firmaSayisi"`
	DocumentsInReview    int64                             `json:"incelenecekBelge"`
}

// AuthorityStats computes the authority's workload overview.
func (s *Service) AuthorityStats(ctx context.Context) (*AuthorityStats, error) {
	appCounts, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate applications")
	}
	userCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate users")
	}
	farmCount, err := s.farms.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count farms")
	}
	companyCount, err := s.companies.CountAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count companies")
	}

	var docsInReview int64
	err = s.conn.WithContext(ctx).
		Model(&models.Document{}).
		Where("status IN ?", []enums.DocumentStatus{
			enums.DocumentStatusPending,
			enums.DocumentStatusResubmitted,
		}).
		Count(&docsInReview).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count documents")
	}

	return &AuthorityStats{
		ApplicationsByStatus: appCounts,
		UsersByRole:          userCounts,
		FarmCount:            farmCount,
		CompanyCount:         companyCount,
		DocumentsInReview:    docsInReview,
	}, nil
}

func (s *Service) countPendingApplications(ctx context.Context, applicantID uuid.UUID) (int64, error) {
	var count int64
	err := s.conn.WithContext(ctx).
		Model(&models.Application{}).
		Where("applicant_id = ? AND status NOT IN ?", applicantID, []enums.ApplicationStatus{
			enums.ApplicationStatusApproved,
			enums.ApplicationStatusRejected,
		}).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count applications")
	}
	return count, nil
}
