package products

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// Validate checks the invariants a product must hold before it is stored.
func Validate(p models.Product) error {
	switch {
	case strings.TrimSpace(p.Slug) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	case strings.TrimSpace(p.Title) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q: title is required", p.Slug))
	case p.Price.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q: price must not be negative", p.Slug))
	case p.CompareAtPrice.Valid && p.CompareAtPrice.Decimal.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q: compare_at_price must not be negative", p.Slug))
	case p.Stock < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q: stock must not be negative", p.Slug))
	case !p.Status.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q: invalid status %q", p.Slug, p.Status))
	}
	return nil
}

// ValidateCategory checks a category before it is stored.
func ValidateCategory(c models.Category) error {
	if strings.TrimSpace(c.Slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category slug is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("category %q: name is required", c.Slug))
	}
	return nil
}
