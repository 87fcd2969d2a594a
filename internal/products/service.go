package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

// Service exposes catalog reads for shoppers and product lookups for the
// cart and checkout.
type Service interface {
	Home(ctx context.Context) (*HomeView, error)
	Shop(ctx context.Context, input ShopInput) (*ShopResult, error)
	// Detail resolves a product by slug or id; only active and coming-soon
	// products are visible.
	Detail(ctx context.Context, slugOrID string) (*ProductDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type catalogRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo catalogRepository
	cfg  config.CatalogConfig
}

func NewService(repo catalogRepository, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) Home(ctx context.Context) (*HomeView, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return &HomeView{
		Featured:   toProductDTOs(Featured(all, s.cfg.FeaturedLimit), s.cfg.LowStockThreshold),
		Categories: toCategoryDTOs(VisibleCategories(categories)),
	}, nil
}

func (s *service) Shop(ctx context.Context, input ShopInput) (*ShopResult, error) {
	filter := input.Filter
	if filter.PriceMin.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min must not be negative")
	}
	if filter.PriceMax != nil && filter.PriceMax.LessThan(filter.PriceMin) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_max must be greater than or equal to price_min")
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	matched := FilterShop(all, categories, filter, s.cfg.DefaultPriceMax)
	page, next, err := pagination.Page(matched, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	result := &ShopResult{
		Products:   toProductDTOs(page, s.cfg.LowStockThreshold),
		Total:      len(matched),
		NextCursor: next,
		Categories: toCategoryDTOs(VisibleCategories(categories)),
	}
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		for _, c := range categories {
			if c.Slug == slug {
				dto := toCategoryDTO(c)
				result.Category = &dto
				break
			}
		}
	}
	return result, nil
}

func (s *service) Detail(ctx context.Context, slugOrID string) (*ProductDetail, error) {
	key := strings.TrimSpace(slugOrID)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	var (
		product *models.Product
		err     error
	)
	if id, parseErr := uuid.Parse(key); parseErr == nil {
		product, err = s.repo.GetByID(ctx, id)
	} else {
		product, err = s.repo.GetBySlug(ctx, key)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil || !product.Status.IsBrowsable() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	detail := &ProductDetail{
		Product: toProductDTO(*product, s.cfg.LowStockThreshold),
		Related: toProductDTOs(Related(*product, all, s.cfg.RelatedLimit), s.cfg.LowStockThreshold),
	}
	if product.CategoryID != nil {
		for _, c := range categories {
			if c.ID == *product.CategoryID {
				dto := toCategoryDTO(c)
				detail.Category = &dto
				break
			}
		}
	}
	return detail, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	found, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve products")
	}
	return found, nil
}
