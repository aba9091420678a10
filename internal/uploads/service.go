package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// sniffLen is how many leading bytes we hand to the MIME sniffer.
const sniffLen = 3072

// StoredFile describes an accepted upload after it has been written to disk.
type StoredFile struct {
	RelPath      string
	OriginalName string
	MimeType     string
	SizeBytes    int64
}

// Store abstracts the blob backend so tests can swap the local disk out.
type Store interface {
	Save(relPath string, r io.Reader) (int64, error)
	Remove(relPath string) error
}

// Service validates multipart uploads against per-category rules and persists
// the accepted ones.
type Service struct {
	store Store
	logg  *logger.Logger
	now   func() time.Time
}

func NewService(store Store, logg *logger.Logger) *Service {
	return &Service{store: store, logg: logg, now: time.Now}
}

// Accept validates the upload for the category and writes it under the
// category's directory for the owning user. The file is fully validated
// before anything touches disk.
func (s *Service) Accept(ctx context.Context, category enums.UploadCategory, userID uuid.UUID, header *multipart.FileHeader) (*StoredFile, error) {
	if header == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	rule, ok := RuleFor(category)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown upload category: %s", category))
	}

	if header.Size > rule.MaxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %s size limit", rule.MaxSizeLabel()))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !rule.AllowsExtension(ext) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported file type, allowed: %s", rule.Describe()))
	}

	file, err := header.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open uploaded file")
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read uploaded file")
	}
	detected := mimetype.Detect(head[:n])
	baseMime := strings.ToLower(detected.String())
	if idx := strings.Index(baseMime, ";"); idx >= 0 {
		baseMime = strings.TrimSpace(baseMime[:idx])
	}
	if !rule.AllowsMime(baseMime) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file content does not match its extension (%s)", baseMime))
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind uploaded file")
	}

	name := UniqueFilename(s.now(), header.Filename)
	relPath := path.Join(rule.DestinationDir(userID), name)

	if _, err := s.store.Save(relPath, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store uploaded file")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"category": category.String(),
			"path":     relPath,
			"size":     header.Size,
		}), "upload accepted")
	}

	return &StoredFile{
		RelPath:      relPath,
		OriginalName: header.Filename,
		MimeType:     baseMime,
		SizeBytes:    header.Size,
	}, nil
}

// Discard removes a previously stored file, ignoring already-gone paths.
func (s *Service) Discard(relPath string) error {
	if relPath == "" {
		return nil
	}
	return s.store.Remove(relPath)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips path components and characters that are unsafe in
// a file name, collapsing runs into single underscores.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._-")
	if name == "" {
		name = "file"
	}
	return name
}

// UniqueFilename prefixes the sanitized name with a timestamp so repeated
// uploads of the same file never collide.
func UniqueFilename(now time.Time, name string) string {
	return fmt.Sprintf("%d_%s", now.UnixNano(), SanitizeFilename(name))
}

var _ Store = (*storage.Local)(nil)
