package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductStatusAvailable    = "Available"
	ProductStatusOutOfStock   = "Out of stock"
	ProductStatusDiscontinued = "Discontinued"
)

// ValidSizes is the closed set of size buckets a variant may use.
var ValidSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

func IsValidSize(size string) bool {
	for _, s := range ValidSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Product stock is split into per-size variants. Variant quantity is the
// authoritative counter; Stock is always derived as the sum of variants.
type Product struct {
	ID             string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name           string          `gorm:"size:255;not null"`
	Slug           string          `gorm:"size:255;not null;uniqueIndex"`
	Description    string          `gorm:"type:text"`
	CategoryID     string          `gorm:"size:36;index;not null"`
	Category       Category        `gorm:"foreignKey:CategoryID"`
	RegularPrice   decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	SalePrice      decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	ProductOffer   int             `gorm:"default:0;not null"`
	EffectiveOffer int             `gorm:"default:0;not null"`
	Stock          int             `gorm:"not null;default:0"`
	Variants       []ProductVariant `gorm:"foreignKey:ProductID"`
	IsBlocked      bool            `gorm:"default:false;not null"`
	Status         string          `gorm:"size:20;default:'Available';not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

type ProductVariant struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ProductID string `gorm:"size:36;not null;index:idx_product_size,unique"`
	Size      string `gorm:"size:5;not null;index:idx_product_size,unique"`
	Quantity  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

// UnitPrice is the price a cart line pays right now.
func (p *Product) UnitPrice() decimal.Decimal {
	if p.SalePrice.IsPositive() {
		return p.SalePrice
	}
	return p.RegularPrice
}

// VariantQuantity reports the stock bucket for a size, or 0 when the size
// does not exist on this product.
func (p *Product) VariantQuantity(size string) int {
	for _, v := range p.Variants {
		if v.Size == size {
			return v.Quantity
		}
	}
	return 0
}
