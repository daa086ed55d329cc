package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxQtyPerLine caps how many units of one (product, size) a cart may hold.
const MaxQtyPerLine = 3

type CartItem struct {
	ID         string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Cart       *Cart           `gorm:"foreignKey:CartID"`
	CartID     string          `gorm:"size:36;not null;index:idx_cart_product_size,unique"`
	Product    *Product        `gorm:"foreignKey:ProductID"`
	ProductID  string          `gorm:"size:36;not null;index:idx_cart_product_size,unique"`
	Size       string          `gorm:"size:5;not null;index:idx_cart_product_size,unique"`
	Qty        int             `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(16,2)"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(16,2)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ci *CartItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == "" {
		ci.ID = uuid.New().String()
	}
	return
}
