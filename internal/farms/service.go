package farms

import (
	"context"

	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/types"
	"github.com/google/uuid"
)

// FileRemover deletes stored files when profile media is replaced.
type FileRemover interface {
	Remove(relPath string) error
}

// Service covers the farmer-facing profile and certificate operations.
type Service struct {
	repo  *Repository
	store FileRemover
}

// NewService wires the farms service.
func NewService(repo *Repository, store FileRemover) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "farms repository required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file store required")
	}
	return &Service{repo: repo, store: store}, nil
}

// GetByOwner loads the requesting farmer's profile.
func (s *Service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Farm, error) {
	farm, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}
	return farm, nil
}

// Get loads a farm by id for the authority panel.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Farm, error) {
	farm, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
	}
	if farm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farm not found")
	}
	return farm, nil
}

// UpdateProfileInput carries the owner-editable profile fields. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Province    *string   `json:"province" validate:"omitempty,min=2,max=60"`
	District    *string   `json:"district" validate:"omitempty,max=60"`
	Latitude    *float64  `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64  `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=40"`
}

// UpdateProfile applies the owner's profile changes.
func (s *Service) UpdateProfile(ctx context.Context, ownerID uuid.UUID, input UpdateProfileInput) (*models.Farm, error) {
	farm, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Province != nil {
		updates["province"] = *input.Province
	}
	if input.District != nil {
		updates["district"] = *input.District
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.Tags != nil {
		updates["tags"] = types.StringArray(*input.Tags)
	}
	if len(updates) == 0 {
		return farm, nil
	}

	if err := s.repo.Update(ctx, farm.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farm")
	}
	return s.GetByOwner(ctx, ownerID)
}

// SetProfilePhoto swaps the farm's profile photo, removing the replaced file.
func (s *Service) SetProfilePhoto(ctx context.Context, ownerID uuid.UUID, relPath string) (*models.Farm, error) {
	if relPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "photo path required")
	}
	farm, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	old := farm.ProfilePhotoPath
	if err := s.repo.Update(ctx, farm.ID, map[string]any{"profile_photo_path": relPath}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farm photo")
	}
	if old != nil && *old != relPath {
		_ = s.store.Remove(*old)
	}

	farm.ProfilePhotoPath = &relPath
	return farm, nil
}

// AddCertificate registers a certificate for the owner's farm. A duplicate
// (kind, issuer) pair is reported as a conflict.
func (s *Service) AddCertificate(ctx context.Context, ownerID uuid.UUID, cert *models.Certificate) (*models.Certificate, error) {
	if cert == nil || cert.Kind == "" || cert.Issuer == "" || cert.FilePath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate kind, issuer and file required")
	}
	farm, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cert.FarmID = farm.ID
	if err := s.repo.AddCertificate(ctx, cert); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "this certificate is already registered for the farm")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create certificate")
	}
	return cert, nil
}

// RemoveCertificate deletes a certificate and its stored file.
func (s *Service) RemoveCertificate(ctx context.Context, ownerID, certID uuid.UUID) error {
	farm, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	cert, err := s.repo.FindCertificate(ctx, farm.ID, certID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load certificate")
	}
	if cert == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "certificate not found")
	}

	deleted, err := s.repo.DeleteCertificate(ctx, farm.ID, certID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete certificate")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "certificate not found")
	}
	if cert.FilePath != "" {
		_ = s.store.Remove(cert.FilePath)
	}
	return nil
}

// ListCertificates returns the owner's certificates.
func (s *Service) ListCertificates(ctx context.Context, ownerID uuid.UUID) ([]models.Certificate, error) {
	farm, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	certs, err := s.repo.ListCertificates(ctx, farm.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list certificates")
	}
	return certs, nil
}
