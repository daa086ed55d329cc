package fakers

import (
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserFaker builds a customer with the password "password123".
func UserFaker(db *gorm.DB) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	return &models.User{
		ID:           uuid.New().String(),
		Name:         faker.Name(),
		Email:        strings.ToLower(faker.Email()),
		Phone:        faker.Phonenumber(),
		Password:     string(hash),
		Role:         models.RoleCustomer,
		ReferralCode: strings.ToUpper(uuid.NewString()[:8]),
	}
}

// AdminFaker builds the back-office account used in development.
func AdminFaker(db *gorm.DB) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)

	return &models.User{
		ID:           uuid.New().String(),
		Name:         "Store Admin",
		Email:        "admin@storefront.local",
		Password:     string(hash),
		Role:         models.RoleAdmin,
		ReferralCode: strings.ToUpper(uuid.NewString()[:8]),
	}
}
