package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wishlist struct {
	ID        string         `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID    string         `gorm:"size:36;uniqueIndex;not null"`
	User      User           `gorm:"foreignKey:UserID"`
	Items     []WishlistItem `gorm:"foreignKey:WishlistID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WishlistItem struct {
	ID         string   `gorm:"size:36;not null;uniqueIndex;primary_key"`
	WishlistID string   `gorm:"size:36;not null;index:idx_wishlist_product,unique"`
	ProductID  string   `gorm:"size:36;not null;index:idx_wishlist_product,unique"`
	Product    *Product `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time
}

func (w *Wishlist) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

func (i *WishlistItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}
