package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for notifications.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	FindTypeByCode(ctx context.Context, code string) (*models.NotificationType, error)
	List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listNotificationsParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
	UnreadOnly bool
}

type notificationMarkResult struct {
	Updated bool
	Found   bool
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *repositoryImpl) FindTypeByCode(ctx context.Context, code string) (*models.NotificationType, error) {
	var nt models.NotificationType
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&nt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &nt, nil
}

func (r *repositoryImpl) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", params.UserID)
	if params.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, nil, err
	}

	if len(notifications) > normalized {
		next := notifications[normalized]
		notifications = notifications[:normalized]
		return notifications, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return notifications, nil, nil
}

func (r *repositoryImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

func (r *repositoryImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID, now time.Time) (notificationMarkResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return notificationMarkResult{}, result.Error
	}

	mark := notificationMarkResult{Updated: result.RowsAffected > 0}
	if result.RowsAffected > 0 {
		mark.Found = true
		return mark, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Count(&count).Error; err != nil {
		return notificationMarkResult{}, err
	}
	mark.Found = count > 0
	return mark, nil
}

func (r *repositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) Delete(ctx context.Context, userID, notificationID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
