package seeders

import (
	"log"

	"github.com/Rakhulsr/go-storefront/app/db/fakers"
	"gorm.io/gorm"
)

var seedCategories = map[string]int{
	"T-Shirts": 10,
	"Shirts":   0,
	"Jeans":    15,
	"Jackets":  0,
}

// DBSeed fills a development database: an admin, a handful of customers,
// categories with products and variants, and the sample coupons.
func DBSeed(db *gorm.DB) error {
	admin := fakers.AdminFaker(db)
	if err := db.FirstOrCreate(admin, "email = ?", admin.Email).Error; err != nil {
		return err
	}

	for i := 0; i < 5; i++ {
		user := fakers.UserFaker(db)
		if err := db.FirstOrCreate(user, "email = ?", user.Email).Error; err != nil {
			return err
		}
	}

	for name, offer := range seedCategories {
		category := fakers.CategoryFaker(db, name, offer)
		if err := db.FirstOrCreate(category, "name = ?", category.Name).Error; err != nil {
			return err
		}
		for i := 0; i < 6; i++ {
			product := fakers.ProductFaker(db, category)
			if err := db.Create(product).Error; err != nil {
				return err
			}
		}
	}

	for _, coupon := range fakers.CouponFaker(db) {
		if err := db.FirstOrCreate(coupon, "code = ?", coupon.Code).Error; err != nil {
			return err
		}
	}

	log.Println("✅ Seed data created")
	return nil
}
