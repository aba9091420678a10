package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/users"
	pkgAuth "github.com/agropazar/agropazar-backend/pkg/auth"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB, *config.Config) {
	t.Helper()
	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Run(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "agropazar", ExpirationMinutes: 60}
	cfg.CORS.AllowedOrigins = []string{"*"}

	router := NewRouter(Deps{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		UserRepo: users.NewRepository(conn),
		AppRepo:  applications.NewRepository(conn),
	})
	return router, conn, cfg
}

func mintRouterToken(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/auth/me",
		"/api/notifications/",
		"/api/ciftlik/profil/",
		"/api/firma/pazar",
		"/api/ziraat/istatistikler",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, rec.Code)
		}
	}
}

func TestRoleScopedRoutes(t *testing.T) {
	router, conn, cfg := newTestRouter(t)

	farmer := models.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		Role:         enums.UserRoleFarmer,
		Status:       enums.UserStatusActive,
	}
	if err := conn.Create(&farmer).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token := mintRouterToken(t, cfg, &farmer)

	// A farmer token must not open the authority panel.
	req := httptest.NewRequest(http.MethodGet, "/api/ziraat/istatistikler", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/firma/pazar", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
