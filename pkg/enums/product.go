package enums

import "fmt"

// ProductStatus is the listing lifecycle. Products are soft-deleted via
// ProductStatusDeleted and never removed from storage.
type ProductStatus string

const (
	ProductStatusDraft         ProductStatus = "taslak"
	ProductStatusActive        ProductStatus = "aktif"
	ProductStatusPendingReview ProductStatus = "incelemede"
	ProductStatusDeleted       ProductStatus = "silindi"
)

var validProductStatuses = []ProductStatus{
	ProductStatusDraft,
	ProductStatusActive,
	ProductStatusPendingReview,
	ProductStatusDeleted,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductCategory groups farm listings for filtering.
type ProductCategory string

const (
	ProductCategoryGrain     ProductCategory = "tahil"
	ProductCategoryVegetable ProductCategory = "sebze"
	ProductCategoryFruit     ProductCategory = "meyve"
	ProductCategoryDairy     ProductCategory = "sut_urunleri"
	ProductCategoryLivestock ProductCategory = "hayvancilik"
	ProductCategoryWaste     ProductCategory = "atik"
)

var validProductCategories = []ProductCategory{
	ProductCategoryGrain,
	ProductCategoryVegetable,
	ProductCategoryFruit,
	ProductCategoryDairy,
	ProductCategoryLivestock,
	ProductCategoryWaste,
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductUnit is the sale unit for quantity and price.
type ProductUnit string

const (
	ProductUnitKilogram ProductUnit = "kg"
	ProductUnitTon      ProductUnit = "ton"
	ProductUnitLiter    ProductUnit = "litre"
	ProductUnitPiece    ProductUnit = "adet"
)

var validProductUnits = []ProductUnit{
	ProductUnitKilogram,
	ProductUnitTon,
	ProductUnitLiter,
	ProductUnitPiece,
}

// IsValid reports whether the value is a known ProductUnit.
func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
