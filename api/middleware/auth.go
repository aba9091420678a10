package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/agropazar/agropazar-backend/api/responses"
	pkgAuth "github.com/agropazar/agropazar-backend/pkg/auth"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/google/uuid"
)

// UserSource loads the user referenced by a verified token.
type UserSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ApplicationSource exposes the latest application lookup the inactive-farmer
// exception depends on.
type ApplicationSource interface {
	LatestByApplicant(ctx context.Context, applicantID uuid.UUID, appType enums.ApplicationType) (*models.Application, error)
}

// Auth validates a bearer token, loads the user, enforces active status and
// seeds the request context. Farmers whose latest farm application is waiting
// on missing documents stay authenticated so they can complete the
// resubmission flow.
func Auth(cfg config.JWTConfig, users UserSource, applications ApplicationSource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "unknown user"))
				return
			}
			if user == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user"))
				return
			}

			if user.Status != enums.UserStatusActive {
				if !missingDocumentException(r.Context(), applications, user) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account is not active"))
					return
				}
			}

			ctx := WithUser(r.Context(), user)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID.String(),
					"actor_role": string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// missingDocumentException lets a pending farmer through when their latest
// farm application is blocked on missing or freshly resubmitted documents.
func missingDocumentException(ctx context.Context, applications ApplicationSource, user *models.User) bool {
	if applications == nil || user.Role != enums.UserRoleFarmer {
		return false
	}
	app, err := applications.LatestByApplicant(ctx, user.ID, enums.ApplicationTypeFarm)
	if err != nil || app == nil {
		return false
	}
	switch app.Status {
	case enums.ApplicationStatusMissingDocuments, enums.ApplicationStatusRevision:
		return true
	case enums.ApplicationStatusUnderReview:
		// Resubmitting the last missing document moves the application back
		// under review; the farmer keeps access while the replacement waits.
		for _, doc := range app.Documents {
			if doc.Status == enums.DocumentStatusResubmitted {
				return true
			}
		}
	}
	return false
}
