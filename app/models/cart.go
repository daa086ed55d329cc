package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// One cart per user. Subtotal/shipping/total are derived from the items at
// read time, never trusted from storage.
type Cart struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID    string `gorm:"size:36;uniqueIndex;not null"`
	User      User   `gorm:"foreignKey:UserID"`
	CartItems []CartItem

	Subtotal decimal.Decimal `gorm:"type:decimal(16,2)"`
	Shipping decimal.Decimal `gorm:"type:decimal(16,2)"`
	Tax      decimal.Decimal `gorm:"type:decimal(16,2)"`
	Total    decimal.Decimal `gorm:"type:decimal(16,2)"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
