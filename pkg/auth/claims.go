package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/agropazar/agropazar-backend/pkg/enums"
)

// AccessTokenPayload is the application-level content minted into the JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims is the full JWT claim set the API signs and verifies.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"uid"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}
