package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryOffer is a whole percentage in [0, 89]; the upper bound keeps a
// category-wide discount from zeroing out product prices.
type Category struct {
	ID            string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name          string    `gorm:"size:100;not null;uniqueIndex"`
	Slug          string    `gorm:"size:100;not null;uniqueIndex"`
	CategoryOffer int       `gorm:"default:0;not null"`
	IsListed      bool      `gorm:"default:true;not null"`
	Products      []Product `gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

const MaxCategoryOffer = 89

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
