package enums

import "fmt"

// ProductStatus captures catalog visibility for a product.
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusComingSoon ProductStatus = "coming_soon"
	ProductStatusDraft      ProductStatus = "draft"
	ProductStatusArchived   ProductStatus = "archived"
)

var validProductStatuses = []ProductStatus{
	ProductStatusActive,
	ProductStatusComingSoon,
	ProductStatusDraft,
	ProductStatusArchived,
}

// String implements fmt.Stringer.
func (p ProductStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
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

// IsBrowsable reports whether shoppers may open the product detail page.
func (p ProductStatus) IsBrowsable() bool {
	return p == ProductStatusActive || p == ProductStatusComingSoon
}
