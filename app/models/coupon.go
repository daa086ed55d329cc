package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFlat       = "flat"

	CouponVisibilityPublic  = "public"
	CouponVisibilityPrivate = "private"

	CouponStatusActive   = "active"
	CouponStatusExpired  = "expired"
	CouponStatusDisabled = "disabled"
)

type Coupon struct {
	ID            string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name          string          `gorm:"size:100;not null"`
	Code          string          `gorm:"size:50;not null;uniqueIndex"`
	DiscountType  string          `gorm:"size:20;not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	// MaxDiscount caps percentage coupons; zero means uncapped.
	MaxDiscount decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	MinPurchase decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	MaxUsage    int             `gorm:"not null;default:1"`
	UsedCount   int             `gorm:"not null;default:0"`
	Visibility  string          `gorm:"size:10;default:'public'"`
	Expiry      time.Time       `gorm:"not null"`
	Status      string          `gorm:"size:10;default:'active'"`
	IsActive    bool            `gorm:"default:true;not null"`

	Redemptions []CouponRedemption `gorm:"foreignKey:CouponID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CouponRedemption records a single user's use of a coupon; the unique
// (coupon, user) index is what makes "already used" checks race-free.
type CouponRedemption struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	CouponID  string `gorm:"size:36;not null;index:idx_coupon_user,unique"`
	UserID    string `gorm:"size:36;not null;index:idx_coupon_user,unique"`
	OrderCode string `gorm:"size:50"`
	CreatedAt time.Time
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (r *CouponRedemption) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (c *Coupon) Expired(now time.Time) bool {
	return c.Expiry.Before(now)
}

func (c *Coupon) Depleted() bool {
	return c.UsedCount >= c.MaxUsage
}
