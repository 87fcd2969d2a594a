package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// ProductDTO is the shopper-facing view of a product.
type ProductDTO struct {
	ID               uuid.UUID           `json:"id"`
	Slug             string              `json:"slug"`
	Title            string              `json:"title"`
	ShortDescription string              `json:"short_description"`
	LongDescription  string              `json:"long_description,omitempty"`
	Price            string              `json:"price"`
	CompareAtPrice   *string             `json:"compare_at_price,omitempty"`
	Stock            int                 `json:"stock"`
	Status           enums.ProductStatus `json:"status"`
	CategoryID       *uuid.UUID          `json:"category_id,omitempty"`
	IsFeatured       bool                `json:"is_featured"`
	ImageURL         string              `json:"image_url,omitempty"`
	StockBadge       enums.StockBadge    `json:"stock_badge,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type HomeView struct {
	Featured   []ProductDTO  `json:"featured"`
	Categories []CategoryDTO `json:"categories"`
}

// ShopInput carries the shop filters plus pagination.
type ShopInput struct {
	Filter     ShopFilter
	Pagination pagination.Params
}

type ShopResult struct {
	Products   []ProductDTO  `json:"products"`
	Total      int           `json:"total"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Category   *CategoryDTO  `json:"category,omitempty"`
	Categories []CategoryDTO `json:"categories"`
}

type ProductDetail struct {
	Product  ProductDTO   `json:"product"`
	Category *CategoryDTO `json:"category,omitempty"`
	Related  []ProductDTO `json:"related"`
}

func toProductDTO(p models.Product, lowStockThreshold int) ProductDTO {
	dto := ProductDTO{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		Price:            p.Price.StringFixed(2),
		Stock:            p.Stock,
		Status:           p.Status,
		CategoryID:       p.CategoryID,
		IsFeatured:       p.IsFeatured,
		ImageURL:         p.ImageURL,
		StockBadge:       StockBadgeFor(p, lowStockThreshold),
		CreatedAt:        p.CreatedAt,
	}
	if p.CompareAtPrice.Valid {
		compare := p.CompareAtPrice.Decimal.StringFixed(2)
		dto.CompareAtPrice = &compare
	}
	return dto
}

func toProductDTOs(items []models.Product, lowStockThreshold int) []ProductDTO {
	out := make([]ProductDTO, 0, len(items))
	for _, p := range items {
		out = append(out, toProductDTO(p, lowStockThreshold))
	}
	return out
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Slug: c.Slug, Name: c.Name, Description: c.Description}
}

func toCategoryDTOs(items []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(items))
	for _, c := range items {
		out = append(out, toCategoryDTO(c))
	}
	return out
}
