package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront-backend/internal/coupons"
	"github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

//go:embed fixtures/*.json
var embeddedFixtures embed.FS

const dateLayout = "2006-01-02"

type categoryFixture struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Visible     bool   `json:"visible"`
	SortOrder   int    `json:"sort_order"`
}

type productFixture struct {
	Slug             string  `json:"slug"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	LongDescription  string  `json:"long_description"`
	Price            string  `json:"price"`
	CompareAtPrice   *string `json:"compare_at_price"`
	Stock            int     `json:"stock"`
	Status           string  `json:"status"`
	Category         string  `json:"category"`
	Featured         bool    `json:"featured"`
	ImageURL         string  `json:"image_url"`
}

type couponFixture struct {
	Code         string `json:"code"`
	Type         string `json:"type"`
	Value        string `json:"value"`
	ValidFrom    string `json:"valid_from"`
	ValidTo      string `json:"valid_to"`
	MinCartValue string `json:"min_cart_value"`
	MaxUses      int    `json:"max_uses"`
}

// Dataset is the validated seed content, ready to be written.
type Dataset struct {
	Categories []models.Category
	// products reference categories by slug until the category ids are known
	Products        []models.Product
	productCategory map[string]string
	Coupons         []models.Coupon
}

// LoadDataset reads and validates every fixture file. All invalid records are
// reported together.
func LoadDataset(fsys fs.FS) (*Dataset, error) {
	var (
		cats  []categoryFixture
		prods []productFixture
		coups []couponFixture
	)
	err := multierr.Combine(
		readFixture(fsys, "fixtures/categories.json", &cats),
		readFixture(fsys, "fixtures/products.json", &prods),
		readFixture(fsys, "fixtures/coupons.json", &coups),
	)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{productCategory: make(map[string]string, len(prods))}
	known := make(map[string]bool, len(cats))
	seen := map[string]bool{}

	for _, f := range cats {
		c := models.Category{
			Slug:        f.Slug,
			Name:        f.Name,
			Description: f.Description,
			Visible:     f.Visible,
			SortOrder:   f.SortOrder,
		}
		if vErr := products.ValidateCategory(c); vErr != nil {
			err = multierr.Append(err, vErr)
			continue
		}
		if seen["category:"+c.Slug] {
			err = multierr.Append(err, fmt.Errorf("category %q: duplicate slug", c.Slug))
			continue
		}
		seen["category:"+c.Slug] = true
		known[c.Slug] = true
		ds.Categories = append(ds.Categories, c)
	}

	for _, f := range prods {
		p, pErr := f.toModel()
		if pErr != nil {
			err = multierr.Append(err, pErr)
			continue
		}
		if vErr := products.Validate(p); vErr != nil {
			err = multierr.Append(err, vErr)
			continue
		}
		if f.Category != "" && !known[f.Category] {
			err = multierr.Append(err, fmt.Errorf("product %q: unknown category %q", f.Slug, f.Category))
			continue
		}
		if seen["product:"+p.Slug] {
			err = multierr.Append(err, fmt.Errorf("product %q: duplicate slug", p.Slug))
			continue
		}
		seen["product:"+p.Slug] = true
		ds.productCategory[p.Slug] = f.Category
		ds.Products = append(ds.Products, p)
	}

	for _, f := range coups {
		c, cErr := f.toModel()
		if cErr != nil {
			err = multierr.Append(err, cErr)
			continue
		}
		if vErr := coupons.Validate(c); vErr != nil {
			err = multierr.Append(err, vErr)
			continue
		}
		if seen["coupon:"+c.Code] {
			err = multierr.Append(err, fmt.Errorf("coupon %s: duplicate code", c.Code))
			continue
		}
		seen["coupon:"+c.Code] = true
		ds.Coupons = append(ds.Coupons, c)
	}

	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Apply upserts the dataset inside tx. Categories and products are keyed by
// slug, coupons by code; coupon usage counters are never reset.
func (ds *Dataset) Apply(ctx context.Context, tx *gorm.DB) error {
	tx = tx.WithContext(ctx)

	if len(ds.Categories) > 0 {
		if err := tx.Select("*").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "visible", "sort_order"}),
		}).Create(&ds.Categories).Error; err != nil {
			return fmt.Errorf("upsert categories: %w", err)
		}
	}

	var stored []models.Category
	if err := tx.Select("id", "slug").Find(&stored).Error; err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	idsBySlug := make(map[string]models.Category, len(stored))
	for _, c := range stored {
		idsBySlug[c.Slug] = c
	}
	for i := range ds.Products {
		if slug := ds.productCategory[ds.Products[i].Slug]; slug != "" {
			id := idsBySlug[slug].ID
			ds.Products[i].CategoryID = &id
		}
	}

	if len(ds.Products) > 0 {
		if err := tx.Select("*").Omit("Category").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "short_description", "long_description", "price", "compare_at_price",
				"stock", "status", "category_id", "is_featured", "image_url", "updated_at",
			}),
		}).Create(&ds.Products).Error; err != nil {
			return fmt.Errorf("upsert products: %w", err)
		}
	}

	if len(ds.Coupons) > 0 {
		if err := tx.Select("*").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"type", "value", "valid_from", "valid_to", "min_cart_value", "max_uses", "updated_at",
			}),
		}).Create(&ds.Coupons).Error; err != nil {
			return fmt.Errorf("upsert coupons: %w", err)
		}
	}
	return nil
}

func readFixture(fsys fs.FS, name string, dest any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (f productFixture) toModel() (models.Product, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return models.Product{}, fmt.Errorf("product %q: invalid price %q", f.Slug, f.Price)
	}
	p := models.Product{
		Slug:             f.Slug,
		Title:            f.Title,
		ShortDescription: f.ShortDescription,
		LongDescription:  f.LongDescription,
		Price:            price,
		Stock:            f.Stock,
		Status:           enums.ProductStatus(f.Status),
		IsFeatured:       f.Featured,
		ImageURL:         f.ImageURL,
	}
	if f.CompareAtPrice != nil {
		compare, err := decimal.NewFromString(*f.CompareAtPrice)
		if err != nil {
			return models.Product{}, fmt.Errorf("product %q: invalid compare_at_price %q", f.Slug, *f.CompareAtPrice)
		}
		p.CompareAtPrice = decimal.NewNullDecimal(compare)
	}
	return p, nil
}

func (f couponFixture) toModel() (models.Coupon, error) {
	value, err := decimal.NewFromString(f.Value)
	if err != nil {
		return models.Coupon{}, fmt.Errorf("coupon %s: invalid value %q", f.Code, f.Value)
	}
	minCart, err := decimal.NewFromString(f.MinCartValue)
	if err != nil {
		return models.Coupon{}, fmt.Errorf("coupon %s: invalid min_cart_value %q", f.Code, f.MinCartValue)
	}
	from, err := time.ParseInLocation(dateLayout, f.ValidFrom, time.UTC)
	if err != nil {
		return models.Coupon{}, fmt.Errorf("coupon %s: invalid valid_from %q", f.Code, f.ValidFrom)
	}
	to, err := time.ParseInLocation(dateLayout, f.ValidTo, time.UTC)
	if err != nil {
		return models.Coupon{}, fmt.Errorf("coupon %s: invalid valid_to %q", f.Code, f.ValidTo)
	}
	return models.Coupon{
		Code:         coupons.NormalizeCode(f.Code),
		Type:         enums.CouponType(f.Type),
		Value:        value,
		ValidFrom:    from,
		ValidTo:      to,
		MinCartValue: minCart,
		MaxUses:      f.MaxUses,
	}, nil
}
