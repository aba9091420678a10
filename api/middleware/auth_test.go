package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/agropazar/agropazar-backend/pkg/auth"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/google/uuid"
)

type stubUserSource struct {
	users map[uuid.UUID]*models.User
}

func (s *stubUserSource) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return s.users[id], nil
}

type stubApplicationSource struct {
	latest map[uuid.UUID]*models.Application
}

func (s *stubApplicationSource) LatestByApplicant(_ context.Context, applicantID uuid.UUID, _ enums.ApplicationType) (*models.Application, error) {
	return s.latest[applicantID], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "agropazar",
		ExpirationMinutes: 60,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authHandler(users *stubUserSource, apps *stubApplicationSource) http.Handler {
	mw := Auth(testJWTConfig(), users, apps, testLogger())
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := UserFromContext(r.Context()); user == nil {
			http.Error(w, "no user in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func mintToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := authHandler(&stubUserSource{}, &stubApplicationSource{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := authHandler(&stubUserSource{}, &stubApplicationSource{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthPassesActiveUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleFarmer, Status: enums.UserStatusActive}
	handler := authHandler(
		&stubUserSource{users: map[uuid.UUID]*models.User{user.ID: user}},
		&stubApplicationSource{},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthBlocksInactiveUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleCompany, Status: enums.UserStatusPending}
	handler := authHandler(
		&stubUserSource{users: map[uuid.UUID]*models.User{user.ID: user}},
		&stubApplicationSource{},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestAuthAllowsFarmerAwaitingDocuments(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleFarmer, Status: enums.UserStatusPending}
	handler := authHandler(
		&stubUserSource{users: map[uuid.UUID]*models.User{user.ID: user}},
		&stubApplicationSource{latest: map[uuid.UUID]*models.Application{
			user.ID: {Status: enums.ApplicationStatusMissingDocuments},
		}},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected missing-documents farmer to pass, got %d", rec.Code)
	}
}

func TestAuthAllowsFarmerAfterResubmission(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleFarmer, Status: enums.UserStatusPending}
	handler := authHandler(
		&stubUserSource{users: map[uuid.UUID]*models.User{user.ID: user}},
		&stubApplicationSource{latest: map[uuid.UUID]*models.Application{
			user.ID: {
				Status: enums.ApplicationStatusUnderReview,
				Documents: []models.Document{
					{Status: enums.DocumentStatusApproved},
					{Status: enums.DocumentStatusResubmitted},
				},
			},
		}},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected farmer with resubmitted document to pass, got %d", rec.Code)
	}
}

func TestAuthBlocksFarmerUnderFirstReview(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleFarmer, Status: enums.UserStatusPending}
	handler := authHandler(
		&stubUserSource{users: map[uuid.UUID]*models.User{user.ID: user}},
		&stubApplicationSource{latest: map[uuid.UUID]*models.Application{
			user.ID: {
				Status:    enums.ApplicationStatusUnderReview,
				Documents: []models.Document{{Status: enums.DocumentStatusPending}},
			},
		}},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestAuthBlocksFarmerWithSubmittedApplication(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: enums.UserRoleFarmer, Status: enums.UserStatusPending}
	handler := authHandler(
		&stubUserSource{users: map[uuid.UUID]*models.User{user.ID: user}},
		&stubApplicationSource{latest: map[uuid.UUID]*models.Application{
			user.ID: {Status: enums.ApplicationStatusSubmitted},
		}},
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	logg := testLogger()
	handler := RequireRole(logg, enums.UserRoleAuthority)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	admin := &models.User{ID: uuid.New(), Role: enums.UserRoleAuthority, Status: enums.UserStatusActive}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), admin)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}

	farmer := &models.User{ID: uuid.New(), Role: enums.UserRoleFarmer, Status: enums.UserStatusActive}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), farmer)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
