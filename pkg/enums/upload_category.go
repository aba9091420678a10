package enums

import "fmt"

// UploadCategory selects the acceptance rules and destination directory for a
// multipart upload.
type UploadCategory string

const (
	UploadCategoryDocument     UploadCategory = "belge"
	UploadCategoryProfilePhoto UploadCategory = "profil_foto"
	UploadCategoryCertificate  UploadCategory = "sertifika"
	UploadCategoryLogo         UploadCategory = "logo"
	UploadCategoryWasteBundle  UploadCategory = "atik_paketi"
)

var validUploadCategories = []UploadCategory{
	UploadCategoryDocument,
	UploadCategoryProfilePhoto,
	UploadCategoryCertificate,
	UploadCategoryLogo,
	UploadCategoryWasteBundle,
}

// String implements fmt.Stringer.
func (c UploadCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known UploadCategory.
func (c UploadCategory) IsValid() bool {
	for _, candidate := range validUploadCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseUploadCategory converts raw input into an UploadCategory.
func ParseUploadCategory(value string) (UploadCategory, error) {
	for _, candidate := range validUploadCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload category %q", value)
}
