package fakers

import (
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponFaker seeds the two coupon shapes the storefront supports.
func CouponFaker(db *gorm.DB) []*models.Coupon {
	return []*models.Coupon{
		{
			ID:            uuid.New().String(),
			Name:          "Ten percent off",
			Code:          "SAVE10",
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: decimal.NewFromInt(10),
			MaxDiscount:   decimal.NewFromInt(100),
			MinPurchase:   decimal.NewFromInt(499),
			MaxUsage:      100,
			Visibility:    models.CouponVisibilityPublic,
			Expiry:        time.Now().AddDate(0, 3, 0),
			Status:        models.CouponStatusActive,
			IsActive:      true,
		},
		{
			ID:            uuid.New().String(),
			Name:          "Flat two hundred",
			Code:          "FLAT200",
			DiscountType:  models.DiscountTypeFlat,
			DiscountValue: decimal.NewFromInt(200),
			MinPurchase:   decimal.NewFromInt(1500),
			MaxUsage:      50,
			Visibility:    models.CouponVisibilityPublic,
			Expiry:        time.Now().AddDate(0, 1, 0),
			Status:        models.CouponStatusActive,
			IsActive:      true,
		},
	}
}
