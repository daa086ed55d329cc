package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string `gorm:"size:36;index;not null"`
	User      User   `gorm:"foreignKey:UserID"`
	Name      string `gorm:"size:255;not null"`
	IsPrimary bool   `gorm:"default:false"`
	Line1     string `gorm:"type:text;not null"`
	Line2     string `gorm:"type:text"`
	City      string `gorm:"size:100;not null"`
	State     string `gorm:"size:100;not null"`
	Pincode   string `gorm:"size:10;not null"`
	Phone     string `gorm:"size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
