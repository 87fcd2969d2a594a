package coupons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
)

// Repository reads coupons and counts redemptions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListAll returns every coupon in creation order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Coupon, error) {
	var rows []models.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

// Redeem counts one use of the coupon. It reports false when the cap was
// already reached, leaving the row untouched.
func (r *Repository) Redeem(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND uses < max_uses", id).
		UpdateColumn("uses", gorm.Expr("uses + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByID loads a coupon; a missing row yields gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// RedeemTx counts one use inside the caller's transaction.
func (r *Repository) RedeemTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (bool, error) {
	return r.WithTx(tx).Redeem(ctx, id)
}
