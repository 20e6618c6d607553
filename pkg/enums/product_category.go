package enums

import "fmt"

// ProductCategory groups catalog listings for storefront navigation.
type ProductCategory string

const (
	ProductCategoryPPE         ProductCategory = "ppe"
	ProductCategoryInstruments ProductCategory = "instruments"
	ProductCategoryDiagnostics ProductCategory = "diagnostics"
	ProductCategoryConsumables ProductCategory = "consumables"
	ProductCategoryMobility    ProductCategory = "mobility"
	ProductCategoryFirstAid    ProductCategory = "first_aid"
	ProductCategoryHygiene     ProductCategory = "hygiene"
)

var validProductCategories = []ProductCategory{
	ProductCategoryPPE,
	ProductCategoryInstruments,
	ProductCategoryDiagnostics,
	ProductCategoryConsumables,
	ProductCategoryMobility,
	ProductCategoryFirstAid,
	ProductCategoryHygiene,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
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

// ProductCategories returns every known category in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}
