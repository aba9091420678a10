package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agropazar/agropazar-backend/api/controllers"
	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/auth"
	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/dashboard"
	"github.com/agropazar/agropazar-backend/internal/documents"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/internal/orders"
	"github.com/agropazar/agropazar-backend/internal/products"
	"github.com/agropazar/agropazar-backend/internal/uploads"
	"github.com/agropazar/agropazar-backend/internal/users"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/metrics"
	"github.com/agropazar/agropazar-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Metrics        *metrics.RequestMetrics
	MetricsHandler http.Handler

	UserRepo *users.Repository
	AppRepo  *applications.Repository

	AuthService         *auth.Service
	UserService         *users.Service
	FarmService         *farms.Service
	CompanyService      *companies.Service
	ProductService      *products.Service
	ApplicationService  *applications.Service
	OrderService        *orders.Service
	DashboardService    *dashboard.Service
	DocumentService     *documents.Service
	NotificationService notifications.Service
	UploadService       *uploads.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, d.UserRepo, d.AppRepo, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB))
	})

	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		if d.Redis != nil {
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).
				Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).
				Post("/register/ciftlik", controllers.AuthRegisterFarmer(d.AuthService, d.UploadService, d.AppRepo, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).
				Post("/register/firma", controllers.AuthRegisterCompany(d.AuthService, logg))
		} else {
			r.Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.Post("/register/ciftlik", controllers.AuthRegisterFarmer(d.AuthService, d.UploadService, d.AppRepo, logg))
			r.Post("/register/firma", controllers.AuthRegisterCompany(d.AuthService, logg))
		}
		r.With(authed).Get("/me", controllers.AuthMe(d.AuthService, logg))
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.NotificationsList(d.NotificationService, logg))
		r.Get("/unread-count", controllers.NotificationsUnreadCount(d.NotificationService, logg))
		r.Post("/{notificationId}/read", controllers.NotificationsMarkRead(d.NotificationService, logg))
		r.Post("/read-all", controllers.NotificationsMarkAllRead(d.NotificationService, logg))
		r.Delete("/{notificationId}", controllers.NotificationsDelete(d.NotificationService, logg))
		r.Delete("/", controllers.NotificationsDeleteAll(d.NotificationService, logg))
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Use(authed)
		r.Get("/applications/{applicationId}/{documentId}", controllers.DocumentServeByApplication(d.DocumentService, logg))
		r.Get("/*", controllers.DocumentServeByPath(d.DocumentService, logg))
	})

	r.Route("/api/ciftlik", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(logg, enums.UserRoleFarmer))

		r.Route("/profil", func(r chi.Router) {
			r.Get("/", controllers.FarmProfileGet(d.FarmService, logg))
			r.Put("/", controllers.FarmProfileUpdate(d.FarmService, logg))
			r.Post("/foto", controllers.FarmProfilePhotoUpload(d.FarmService, d.UploadService, logg))
		})
		r.Route("/sertifikalar", func(r chi.Router) {
			r.Get("/", controllers.FarmCertificatesList(d.FarmService, logg))
			r.Post("/", controllers.FarmCertificateAdd(d.FarmService, d.UploadService, logg))
			r.Delete("/{certificateId}", controllers.FarmCertificateDelete(d.FarmService, logg))
		})
		r.Route("/urunler", func(r chi.Router) {
			r.Get("/", controllers.ProductListOwn(d.ProductService, logg))
			r.Post("/", controllers.ProductCreate(d.ProductService, logg))
			r.Put("/{productId}", controllers.ProductUpdate(d.ProductService, logg))
			r.Post("/{productId}/basvuru", controllers.ProductSubmit(d.ProductService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(d.ProductService, logg))
		})
		r.Route("/basvurular", func(r chi.Router) {
			r.Get("/", controllers.ApplicationsListOwn(d.ApplicationService, logg))
			r.Get("/{applicationId}", controllers.ApplicationsGetOwn(d.ApplicationService, logg))
			r.Post("/{applicationId}/belgeler/{documentId}", controllers.ApplicationResubmitDocument(d.ApplicationService, d.UploadService, logg))
		})
		r.Route("/teklifler", func(r chi.Router) {
			r.Get("/", controllers.OffersListFarm(d.OrderService, logg))
			r.Post("/{offerId}/kabul", controllers.OfferAccept(d.OrderService, logg))
			r.Post("/{offerId}/red", controllers.OfferDecline(d.OrderService, logg))
		})
		r.Route("/siparisler", func(r chi.Router) {
			r.Get("/", controllers.OrdersListFarm(d.OrderService, logg))
			r.Post("/{orderId}/tamamla", controllers.OrderComplete(d.OrderService, logg))
		})
		r.Get("/istatistikler", controllers.DashboardFarmStats(d.DashboardService, logg))
	})

	r.Route("/api/firma", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(logg, enums.UserRoleCompany))

		r.Route("/profil", func(r chi.Router) {
			r.Get("/", controllers.CompanyProfileGet(d.CompanyService, logg))
			r.Put("/", controllers.CompanyProfileUpdate(d.CompanyService, logg))
			r.Post("/logo", controllers.CompanyLogoUpload(d.CompanyService, d.UploadService, logg))
		})
		r.Get("/pazar", controllers.ProductMarketplace(d.ProductService, logg))
		r.Route("/teklifler", func(r chi.Router) {
			r.Get("/", controllers.OffersListCompany(d.OrderService, logg))
			r.Post("/", controllers.OfferCreate(d.OrderService, logg))
		})
		r.Get("/siparisler", controllers.OrdersListCompany(d.OrderService, logg))
	})

	r.Route("/api/ziraat", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireRole(logg, enums.UserRoleAuthority))

		r.Route("/basvurular", func(r chi.Router) {
			r.Get("/", controllers.AdminApplicationsList(d.ApplicationService, logg))
			r.Get("/{applicationId}", controllers.AdminApplicationGet(d.ApplicationService, logg))
			r.Post("/{applicationId}/incele", controllers.AdminApplicationStartReview(d.ApplicationService, logg))
			r.Post("/{applicationId}/onayla", controllers.AdminApplicationApprove(d.ApplicationService, logg))
			r.Post("/{applicationId}/reddet", controllers.AdminApplicationReject(d.ApplicationService, logg))
			r.Delete("/{applicationId}", controllers.AdminApplicationRejectAndDelete(d.ApplicationService, logg))
			r.Route("/{applicationId}/belgeler/{documentId}", func(r chi.Router) {
				r.Post("/onayla", controllers.AdminDocumentApprove(d.ApplicationService, logg))
				r.Post("/reddet", controllers.AdminDocumentReject(d.ApplicationService, logg))
				r.Post("/eksik", controllers.AdminDocumentMarkMissing(d.ApplicationService, logg))
			})
		})
		r.Route("/kullanicilar", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(d.UserService, logg))
			r.Get("/{userId}", controllers.AdminUserGet(d.UserService, logg))
			r.Put("/{userId}/durum", controllers.AdminUserUpdateStatus(d.UserService, logg))
		})
		r.Get("/istatistikler", controllers.DashboardAuthorityStats(d.DashboardService, logg))
	})

	return r
}
