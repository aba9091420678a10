package users

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
)

func TestUserDTOOmitsCredentials(t *testing.T) {
	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ciftci@example.com",
		PasswordHash: "argon2id$gizli",
		FirstName:    "Ayşe",
		LastName:     "Yılmaz",
		Role:         enums.UserRoleFarmer,
		Status:       enums.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	raw, err := json.Marshal(FromModel(user))
	if err != nil {
		t.Fatalf("marshal dto: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "gizli") || strings.Contains(strings.ToLower(body), "password") {
		t.Fatalf("credentials leaked into payload: %s", body)
	}
	for _, key := range []string{`"id"`, `"email"`, `"firstName"`, `"lastName"`, `"role"`, `"status"`, `"createdAt"`} {
		if !strings.Contains(body, key) {
			t.Fatalf("expected %s in payload: %s", key, body)
		}
	}
}

// Even when a model slips into a response untranslated, the hash stays out of
// the serialized form.
func TestUserModelNeverSerializesHash(t *testing.T) {
	raw, err := json.Marshal(&models.User{
		ID:           uuid.New(),
		Email:        "firma@example.com",
		PasswordHash: "argon2id$gizli",
	})
	if err != nil {
		t.Fatalf("marshal model: %v", err)
	}
	if strings.Contains(string(raw), "gizli") {
		t.Fatalf("password hash leaked: %s", raw)
	}
}

func TestFromModelNil(t *testing.T) {
	if FromModel(nil) != nil {
		t.Fatal("expected nil for nil model")
	}
}
