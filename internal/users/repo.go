package users

import (
	"context"
	"errors"
	"time"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail retrieves the user matching the provided email, or nil when absent.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActiveByRole returns every active user carrying the role. Used by the
// notification fan-out.
func (r *Repository) ListActiveByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", role, enums.UserStatusActive).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListParams filters the admin user listing.
type ListParams struct {
	Role   *enums.UserRole
	Status *enums.UserStatus
}

// List returns users newest-first, optionally filtered by role and status.
// Deleted accounts stay hidden unless explicitly requested.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if params.Role != nil {
		query = query.Where("role = ?", *params.Role)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		query = query.Where("status <> ?", enums.UserStatusDeleted)
	}

	var rows []models.User
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByRole groups user counts per role for the authority dashboard.
func (r *Repository) CountByRole(ctx context.Context) (map[enums.UserRole]int64, error) {
	type row struct {
		Role  enums.UserRole
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, count(*) as count").
		Where("status <> ?", enums.UserStatusDeleted).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.UserRole]int64, len(rows))
	for _, r := range rows {
		counts[r.Role] = r.Count
	}
	return counts, nil
}

// UpdateStatus flips the account lifecycle flag.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.UserStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
