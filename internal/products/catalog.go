package products

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// ShopFilter narrows the shop listing. Zero values mean "no constraint",
// except PriceMax which falls back to the configured ceiling.
type ShopFilter struct {
	CategorySlug string
	Search       string
	PriceMin     decimal.Decimal
	PriceMax     *decimal.Decimal
	Sort         enums.ProductSort
}

// FilterShop keeps active products matching every constraint in filter and
// orders them by filter.Sort. An unknown category slug matches nothing.
func FilterShop(all []models.Product, categories []models.Category, filter ShopFilter, priceCeiling decimal.Decimal) []models.Product {
	var categoryID *uuid.UUID
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		for i := range categories {
			if categories[i].Slug == slug {
				categoryID = &categories[i].ID
				break
			}
		}
		if categoryID == nil {
			return []models.Product{}
		}
	}

	priceMax := priceCeiling
	if filter.PriceMax != nil {
		priceMax = *filter.PriceMax
	}
	needle := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.Status != enums.ProductStatusActive {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		if needle != "" && !matchesSearch(p, needle) {
			continue
		}
		if p.Price.LessThan(filter.PriceMin) || p.Price.GreaterThan(priceMax) {
			continue
		}
		out = append(out, p)
	}
	SortProducts(out, filter.Sort)
	return out
}

func matchesSearch(p models.Product, needle string) bool {
	haystack := strings.ToLower(p.Title + " " + p.ShortDescription + " " + p.LongDescription)
	return strings.Contains(haystack, needle)
}

// SortProducts orders products in place. Unknown or empty sort keys sort by
// title, case-insensitively.
func SortProducts(items []models.Product, by enums.ProductSort) {
	var less func(a, b models.Product) bool
	switch by {
	case enums.ProductSortPriceLow:
		less = func(a, b models.Product) bool { return a.Price.LessThan(b.Price) }
	case enums.ProductSortPriceHigh:
		less = func(a, b models.Product) bool { return a.Price.GreaterThan(b.Price) }
	case enums.ProductSortNewest:
		less = func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// Featured picks up to limit active products, flagged products first.
func Featured(all []models.Product, limit int) []models.Product {
	var flagged, rest []models.Product
	for _, p := range all {
		if p.Status != enums.ProductStatusActive {
			continue
		}
		if p.IsFeatured {
			flagged = append(flagged, p)
		} else {
			rest = append(rest, p)
		}
	}
	out := append(flagged, rest...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		return []models.Product{}
	}
	return out
}

// VisibleCategories drops hidden categories, preserving order.
func VisibleCategories(categories []models.Category) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// Related returns up to limit active products sharing product's category.
func Related(product models.Product, all []models.Product, limit int) []models.Product {
	out := []models.Product{}
	if product.CategoryID == nil {
		return out
	}
	for _, p := range all {
		if p.ID == product.ID || p.Status != enums.ProductStatusActive {
			continue
		}
		if p.CategoryID == nil || *p.CategoryID != *product.CategoryID {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// StockBadgeFor labels a product's availability.
func StockBadgeFor(p models.Product, lowStockThreshold int) enums.StockBadge {
	switch {
	case p.Status == enums.ProductStatusComingSoon:
		return enums.StockBadgeComingSoon
	case p.Stock <= 0:
		return enums.StockBadgeOutOfStock
	case p.Stock <= lowStockThreshold:
		return enums.StockBadgeLowStock
	default:
		return enums.StockBadgeNone
	}
}
