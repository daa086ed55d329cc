package services

import (
	"context"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/shopspring/decimal"
)

type CouponService struct {
	couponRepo repositories.CouponRepository
}

func NewCouponService(couponRepo repositories.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Validate checks a code against a cart subtotal and returns the coupon with
// its computed discount. Validation alone never consumes a usage slot; the
// slot is taken by Redeem at order placement.
func (s *CouponService) Validate(ctx context.Context, code, userID string, subtotal decimal.Decimal) (*models.Coupon, decimal.Decimal, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if coupon == nil || !coupon.IsActive || coupon.Status != models.CouponStatusActive {
		return nil, decimal.Zero, ErrCouponInvalid
	}
	if coupon.Expired(time.Now()) {
		if err := s.couponRepo.Deactivate(ctx, coupon.ID, models.CouponStatusExpired); err != nil {
			return nil, decimal.Zero, err
		}
		return nil, decimal.Zero, ErrCouponExpired
	}
	if coupon.Depleted() {
		return nil, decimal.Zero, ErrCouponLimitReached
	}

	used, err := s.couponRepo.HasRedeemed(ctx, coupon.ID, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if used {
		return nil, decimal.Zero, ErrCouponAlreadyUsed
	}

	if subtotal.LessThan(coupon.MinPurchase) {
		return nil, decimal.Zero, ErrMinPurchase
	}

	return coupon, Discount(coupon, subtotal), nil
}

// Redeem consumes a usage slot for the user. Called once, inside checkout,
// after the order row exists.
func (s *CouponService) Redeem(ctx context.Context, couponID, userID, orderCode string) error {
	err := s.couponRepo.Redeem(ctx, couponID, userID, orderCode)
	switch err {
	case repositories.ErrCouponAlreadyUsed:
		return ErrCouponAlreadyUsed
	case repositories.ErrCouponDepleted:
		return ErrCouponLimitReached
	}
	return err
}

// Discount computes what a coupon takes off a subtotal. Percentage coupons
// are capped by MaxDiscount (zero cap means uncapped); no coupon discounts
// more than the subtotal itself.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		discount = calc.CapDiscount(calc.PercentageDiscount(subtotal, coupon.DiscountValue), coupon.MaxDiscount)
	case models.DiscountTypeFlat:
		discount = coupon.DiscountValue
	default:
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount
}
