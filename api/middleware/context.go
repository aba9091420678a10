package middleware

import (
	"context"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxUser   contextKey = "user"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// UserFromContext returns the authenticated user record seeded by Auth.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*models.User); ok {
		return v
	}
	return nil
}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUser, user)
	ctx = context.WithValue(ctx, ctxUserID, user.ID.String())
	return context.WithValue(ctx, ctxRole, string(user.Role))
}
