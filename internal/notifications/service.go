package notifications

import (
	"context"
	"time"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDirectory resolves recipients for role-wide fan-out.
type UserDirectory interface {
	ListActiveByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
}

// Service defines notification dispatch and bookkeeping operations.
type Service interface {
	Notify(ctx context.Context, input NotifyInput) error
	NotifyTx(ctx context.Context, tx *gorm.DB, input NotifyInput) error
	NotifyRole(ctx context.Context, role enums.UserRole, input NotifyInput) error
	NotifyRoleTx(ctx context.Context, tx *gorm.DB, role enums.UserRole, input NotifyInput) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, notificationID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo  Repository
	users UserDirectory
}

// NotifyInput is a single dispatch request. Unknown category codes fall back
// to the generic system category.
type NotifyInput struct {
	UserID       uuid.UUID
	CategoryCode enums.NotificationCode
	Title        string
	Message      string
	Link         *string
}

// ListParams configures pagination for notifications.
type ListParams struct {
	UserID     uuid.UUID
	Limit      int
	Cursor     string
	UnreadOnly bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository, users UserDirectory) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) Notify(ctx context.Context, input NotifyInput) error {
	return s.notify(ctx, s.repo, input)
}

// NotifyTx dispatches within a caller-owned transaction so workflow writes
// and their notifications commit or roll back together.
func (s *service) NotifyTx(ctx context.Context, tx *gorm.DB, input NotifyInput) error {
	return s.notify(ctx, s.repo.WithTx(tx), input)
}

func (s *service) notify(ctx context.Context, repo Repository, input NotifyInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient user id required")
	}
	if input.Title == "" || input.Message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification title and message required")
	}

	typeID, err := s.resolveTypeID(ctx, repo, input.CategoryCode)
	if err != nil {
		return err
	}

	row := models.Notification{
		UserID:  input.UserID,
		TypeID:  typeID,
		Title:   input.Title,
		Message: input.Message,
		Link:    input.Link,
	}
	if err := repo.Create(ctx, &row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) NotifyRole(ctx context.Context, role enums.UserRole, input NotifyInput) error {
	return s.notifyRole(ctx, s.repo, role, input)
}

func (s *service) NotifyRoleTx(ctx context.Context, tx *gorm.DB, role enums.UserRole, input NotifyInput) error {
	return s.notifyRole(ctx, s.repo.WithTx(tx), role, input)
}

func (s *service) notifyRole(ctx context.Context, repo Repository, role enums.UserRole, input NotifyInput) error {
	if s.users == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "user directory unavailable")
	}
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid recipient role")
	}
	if input.Title == "" || input.Message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification title and message required")
	}

	recipients, err := s.users.ListActiveByRole(ctx, role)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recipients")
	}
	if len(recipients) == 0 {
		return nil
	}

	typeID, err := s.resolveTypeID(ctx, repo, input.CategoryCode)
	if err != nil {
		return err
	}

	rows := make([]models.Notification, 0, len(recipients))
	for _, user := range recipients {
		rows = append(rows, models.Notification{
			UserID:  user.ID,
			TypeID:  typeID,
			Title:   input.Title,
			Message: input.Message,
			Link:    input.Link,
		})
	}
	if err := repo.CreateBatch(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notifications")
	}
	return nil
}

func (s *service) resolveTypeID(ctx context.Context, repo Repository, code enums.NotificationCode) (uuid.UUID, error) {
	lookup := code
	if !lookup.IsValid() {
		lookup = enums.NotificationCodeSystem
	}

	nt, err := repo.FindTypeByCode(ctx, lookup.String())
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve notification type")
	}
	if nt == nil && lookup != enums.NotificationCodeSystem {
		nt, err = repo.FindTypeByCode(ctx, enums.NotificationCodeSystem.String())
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve notification type")
		}
	}
	if nt == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeDependency, "notification type table is not seeded")
	}
	return nt.ID, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	query := listNotificationsParams{
		UserID:     params.UserID,
		Limit:      pagination.LimitWithBuffer(params.Limit),
		UnreadOnly: params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, userID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	count, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if userID == uuid.Nil || notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and notification id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notification")
	}
	if deleted == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	deleted, err := s.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete notifications")
	}
	return deleted, nil
}
