package uploads

import (
	"fmt"
	"path"
	"strings"

	"github.com/agropazar/agropazar-backend/pkg/enums"
	"github.com/google/uuid"
)

const megabyte = 1 << 20

// Rule is the acceptance policy for one upload category: extension and MIME
// allow-lists, a byte ceiling, and the destination directory template.
type Rule struct {
	Extensions []string
	MimeTypes  []string
	MaxBytes   int64
	dirFn      func(userID uuid.UUID) string
}

var rulesByCategory = map[enums.UploadCategory]Rule{
	enums.UploadCategoryDocument: {
		Extensions: []string{".pdf", ".jpg", ".jpeg", ".png"},
		MimeTypes:  []string{"application/pdf", "image/jpeg", "image/png"},
		MaxBytes:   10 * megabyte,
		dirFn: func(userID uuid.UUID) string {
			return path.Join("farmer", userID.String(), "documents")
		},
	},
	enums.UploadCategoryProfilePhoto: {
		Extensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		MimeTypes:  []string{"image/jpeg", "image/png", "image/webp"},
		MaxBytes:   5 * megabyte,
		dirFn: func(userID uuid.UUID) string {
			return path.Join("farmer", userID.String(), "profile")
		},
	},
	enums.UploadCategoryCertificate: {
		Extensions: []string{".pdf", ".jpg", ".jpeg", ".png"},
		MimeTypes:  []string{"application/pdf", "image/jpeg", "image/png"},
		MaxBytes:   10 * megabyte,
		dirFn: func(userID uuid.UUID) string {
			return path.Join("farmer", userID.String(), "certificates")
		},
	},
	enums.UploadCategoryLogo: {
		Extensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		MimeTypes:  []string{"image/jpeg", "image/png", "image/webp"},
		MaxBytes:   2 * megabyte,
		dirFn: func(userID uuid.UUID) string {
			return path.Join("company", userID.String(), "logo")
		},
	},
	enums.UploadCategoryWasteBundle: {
		Extensions: []string{".pdf", ".jpg", ".jpeg", ".png"},
		MimeTypes:  []string{"application/pdf", "image/jpeg", "image/png"},
		MaxBytes:   10 * megabyte,
		dirFn: func(userID uuid.UUID) string {
			return path.Join("farmer", userID.String(), "waste")
		},
	},
}

// RuleFor returns the acceptance rule for a category.
func RuleFor(category enums.UploadCategory) (Rule, bool) {
	rule, ok := rulesByCategory[category]
	return rule, ok
}

// DestinationDir builds the relative upload directory for the category and user.
func (r Rule) DestinationDir(userID uuid.UUID) string {
	return r.dirFn(userID)
}

// AllowsExtension checks the filename extension against the allow-list.
func (r Rule) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range r.Extensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

// AllowsMime checks a sniffed MIME type against the allow-list.
func (r Rule) AllowsMime(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, allowed := range r.MimeTypes {
		if allowed == mime {
			return true
		}
	}
	return false
}

// Describe lists the accepted extensions for error messages.
func (r Rule) Describe() string {
	return strings.Join(r.Extensions, ", ")
}

// MaxSizeLabel renders the byte ceiling for error messages.
func (r Rule) MaxSizeLabel() string {
	return fmt.Sprintf("%d MB", r.MaxBytes/megabyte)
}
