package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                  string  `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name                string  `gorm:"size:100;not null"`
	Email               string  `gorm:"size:100;not null;uniqueIndex"`
	Phone               string  `gorm:"size:20"`
	Password            string  `gorm:"size:255;not null"`
	Role                string  `gorm:"size:20;default:'customer';not null"`
	IsBlocked           bool    `gorm:"default:false"`
	ReferralCode        string  `gorm:"size:12;uniqueIndex"`
	ReferredBy          *string `gorm:"size:36;index"`
	Redeemed            bool    `gorm:"default:false"`
	Addresses           []Address `gorm:"foreignKey:UserID"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
