package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Coupon is a discount rule with an inclusive validity window and a usage cap.
// Codes are stored upper-cased.
type Coupon struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Code         string           `gorm:"column:code;not null;uniqueIndex"`
	Type         enums.CouponType `gorm:"column:type;type:coupon_type;not null"`
	Value        decimal.Decimal  `gorm:"column:value;type:numeric(12,2);not null"`
	ValidFrom    time.Time        `gorm:"column:valid_from;type:date;not null"`
	ValidTo      time.Time        `gorm:"column:valid_to;type:date;not null"`
	MinCartValue decimal.Decimal  `gorm:"column:min_cart_value;type:numeric(12,2);not null"`
	Uses         int              `gorm:"column:uses;not null;default:0"`
	MaxUses      int              `gorm:"column:max_uses;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Coupon) TableName() string { return "coupons" }

func (c *Coupon) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
