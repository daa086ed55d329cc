package fakers

import (
	"math/rand"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func CategoryFaker(db *gorm.DB, name string, offer int) *models.Category {
	return &models.Category{
		ID:            uuid.New().String(),
		Name:          name,
		Slug:          slug.Make(name),
		CategoryOffer: offer,
		IsListed:      true,
	}
}

// ProductFaker builds a product with a random subset of size variants;
// aggregate stock and sale price are derived the same way the application
// derives them.
func ProductFaker(db *gorm.DB, category *models.Category) *models.Product {
	name := faker.Word() + " " + faker.Word()
	productID := uuid.New().String()

	regularPrice := decimal.NewFromInt(int64(rand.Intn(4500) + 499))
	productOffer := rand.Intn(40)
	salePrice, effectiveOffer := calc.BestOfferPrice(regularPrice, productOffer, category.CategoryOffer)

	total := 0
	var variants []models.ProductVariant
	for _, size := range models.ValidSizes {
		if rand.Intn(2) == 0 {
			continue
		}
		qty := rand.Intn(15)
		total += qty
		variants = append(variants, models.ProductVariant{
			ID:        uuid.New().String(),
			ProductID: productID,
			Size:      size,
			Quantity:  qty,
		})
	}
	if len(variants) == 0 {
		variants = append(variants, models.ProductVariant{
			ID:        uuid.New().String(),
			ProductID: productID,
			Size:      "M",
			Quantity:  10,
		})
		total = 10
	}

	status := models.ProductStatusAvailable
	if total == 0 {
		status = models.ProductStatusOutOfStock
	}

	return &models.Product{
		ID:             productID,
		Name:           name,
		Slug:           slug.Make(name + "-" + uuid.NewString()[:6]),
		Description:    faker.Paragraph(),
		CategoryID:     category.ID,
		RegularPrice:   regularPrice,
		SalePrice:      salePrice,
		ProductOffer:   productOffer,
		EffectiveOffer: effectiveOffer,
		Stock:          total,
		Variants:       variants,
		Status:         status,
	}
}
