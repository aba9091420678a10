package documents

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/storage"
	"github.com/google/uuid"
)

// contentTypes is the fixed extension table used when serving stored files.
// Anything else falls back to application/octet-stream.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ContentTypeFor maps a file name onto its response content type.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// InlineViewable reports whether the type renders in the browser; anything
// else is always served as an attachment.
func InlineViewable(contentType string) bool {
	return contentType == "application/pdf" || strings.HasPrefix(contentType, "image/")
}

// ServedFile is an open stored file ready to stream to the client.
type ServedFile struct {
	File        *os.File
	Size        int64
	ContentType string
	Filename    string
}

// Close releases the underlying file handle.
func (f *ServedFile) Close() error {
	if f == nil || f.File == nil {
		return nil
	}
	return f.File.Close()
}

// Service resolves stored files for download, enforcing ownership on
// application documents.
type Service struct {
	store *storage.Local
	apps  *applications.Repository
}

// NewService wires the document serving service.
func NewService(store *storage.Local, apps *applications.Repository) (*Service, error) {
	if store == nil || apps == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "documents service dependencies missing")
	}
	return &Service{store: store, apps: apps}, nil
}

// OpenByPath serves a stored file by its relative path. The requester must
// own the path's top-level user directory unless they are the authority;
// path traversal is rejected inside the store.
func (s *Service) OpenByPath(ctx context.Context, requester *models.User, rel string) (*ServedFile, error) {
	if requester == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if requester.Role != enums.UserRoleAuthority && !ownsPath(requester.ID, rel) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	file, info, err := s.store.Open(rel)
	if err != nil {
		return nil, err
	}
	return &ServedFile{
		File:        file,
		Size:        info.Size(),
		ContentType: ContentTypeFor(rel),
		Filename:    path.Base(rel),
	}, nil
}

// OpenApplicationDocument serves a document by its (application, document)
// pair. The authority sees everything; everyone else only their own
// applications.
func (s *Service) OpenApplicationDocument(ctx context.Context, requester *models.User, applicationID, documentID uuid.UUID) (*ServedFile, error) {
	if requester == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	if app == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}
	if requester.Role != enums.UserRoleAuthority && app.ApplicantID != requester.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}

	doc, err := s.apps.FindDocument(ctx, applicationID, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	if doc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}

	file, info, err := s.store.Open(doc.FilePath)
	if err != nil {
		return nil, err
	}
	contentType := doc.MimeType
	if contentType == "" {
		contentType = ContentTypeFor(doc.FilePath)
	}
	return &ServedFile{
		File:        file,
		Size:        info.Size(),
		ContentType: contentType,
		Filename:    path.Base(doc.FilePath),
	}, nil
}

// ownsPath checks that the second path segment (farmer/{id}/... or
// company/{id}/...) matches the requester.
func ownsPath(userID uuid.UUID, rel string) bool {
	parts := strings.Split(path.Clean(strings.TrimPrefix(rel, "/")), "/")
	if len(parts) < 2 {
		return false
	}
	return parts[1] == userID.String()
}
