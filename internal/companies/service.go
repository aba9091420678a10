package companies

import (
	"context"

	"github.com/agropazar/agropazar-backend/pkg/db/models"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/google/uuid"
)

// FileRemover deletes stored files when profile media is replaced.
type FileRemover interface {
	Remove(relPath string) error
}

// Service covers the company-facing profile operations.
type Service struct {
	repo  *Repository
	store FileRemover
}

// NewService wires the companies service.
func NewService(repo *Repository, store FileRemover) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "companies repository required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file store required")
	}
	return &Service{repo: repo, store: store}, nil
}

// GetByOwner loads the requesting company's profile.
func (s *Service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Company, error) {
	company, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if company == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
	}
	return company, nil
}

// UpdateProfileInput carries the owner-editable company fields. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	TradeName    *string `json:"tradeName" validate:"omitempty,min=2,max=160"`
	Website      *string `json:"website" validate:"omitempty,url,max=200"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone *string `json:"contactPhone" validate:"omitempty,min=7,max=20"`
}

// UpdateProfile applies the owner's profile changes.
func (s *Service) UpdateProfile(ctx context.Context, ownerID uuid.UUID, input UpdateProfileInput) (*models.Company, error) {
	company, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.TradeName != nil {
		updates["trade_name"] = *input.TradeName
	}
	if input.Website != nil {
		updates["website"] = *input.Website
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = *input.ContactEmail
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = *input.ContactPhone
	}
	if len(updates) == 0 {
		return company, nil
	}

	if err := s.repo.Update(ctx, company.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
	}
	return s.GetByOwner(ctx, ownerID)
}

// SetLogo swaps the company logo, removing the replaced file.
func (s *Service) SetLogo(ctx context.Context, ownerID uuid.UUID, relPath string) (*models.Company, error) {
	if relPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logo path required")
	}
	company, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	old := company.LogoPath
	if err := s.repo.Update(ctx, company.ID, map[string]any{"logo_path": relPath}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company logo")
	}
	if old != nil && *old != relPath {
		_ = s.store.Remove(*old)
	}

	company.LogoPath = &relPath
	return company, nil
}
