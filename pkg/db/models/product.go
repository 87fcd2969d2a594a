package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Product is a catalog listing. The storefront core only reads products.
type Product struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Slug             string              `gorm:"column:slug;not null;uniqueIndex"`
	Title            string              `gorm:"column:title;not null"`
	ShortDescription string              `gorm:"column:short_description;not null;default:''"`
	LongDescription  string              `gorm:"column:long_description;not null;default:''"`
	Price            decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice   decimal.NullDecimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Stock            int                 `gorm:"column:stock;not null;default:0"`
	Status           enums.ProductStatus `gorm:"column:status;type:product_status;not null;default:'draft'"`
	CategoryID       *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Category         *Category           `gorm:"foreignKey:CategoryID"`
	IsFeatured       bool                `gorm:"column:is_featured;not null"`
	ImageURL         string              `gorm:"column:image_url;not null;default:''"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
