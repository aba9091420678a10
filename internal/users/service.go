package users

import (
	"context"

	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/google/uuid"
)

// Service covers the authority-side account management operations. Company
// accounts have no application workflow, so flipping the status here is how
// a pending firma becomes active.
type Service struct {
	repo     *Repository
	notifier notifications.Service
	logg     *logger.Logger
}

// NewService wires the account management service.
func NewService(repo *Repository, notifier notifications.Service, logg *logger.Logger) (*Service, error) {
	if repo == nil || notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users service requires repository and notifier")
	}
	return &Service{repo: repo, notifier: notifier, logg: logg}, nil
}

// List returns accounts for the admin panel, optionally filtered.
func (s *Service) List(ctx context.Context, params ListParams) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not list users")
	}
	return FromModels(rows), nil
}

// Get loads a single account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

// SetStatus changes an account's lifecycle status and tells the owner.
// Authority accounts are off limits.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status enums.UserStatus) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == enums.UserRoleAuthority {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "authority accounts cannot be managed here")
	}
	if user.Status == status {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "user already has this status")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "could not update user status")
	}
	user.Status = status

	if note, ok := statusNotification(status); ok {
		if err := s.notifier.Notify(ctx, notifications.NotifyInput{
			UserID:       user.ID,
			CategoryCode: enums.NotificationCodeSystem,
			Title:        note.title,
			Message:      note.message,
		}); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID, "status": status}), "status notification failed")
		}
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"user_id": user.ID, "status": status}), "user status changed")
	}
	return FromModel(user), nil
}

type statusNote struct {
	title   string
	message string
}

func statusNotification(status enums.UserStatus) (statusNote, bool) {
	switch status {
	case enums.UserStatusActive:
		return statusNote{
			title:   "Hesabınız aktifleştirildi",
			message: "Hesabınız onaylandı, artık Agropazar'ı kullanabilirsiniz.",
		}, true
	case enums.UserStatusSuspended:
		return statusNote{
			title:   "Hesabınız askıya alındı",
			message: "Hesabınız geçici olarak askıya alındı. Detay için bizimle iletişime geçin.",
		}, true
	default:
		return statusNote{}, false
	}
}
