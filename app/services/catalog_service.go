package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
)

// CatalogService owns pricing: every product write goes through the
// best-offer computation, and a category offer change re-prices the whole
// category.
type CatalogService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepository
}

func NewCatalogService(productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// ApplyBestOffer recomputes SalePrice and EffectiveOffer in place from
// max(productOffer, categoryOffer).
func (s *CatalogService) ApplyBestOffer(ctx context.Context, product *models.Product) error {
	categoryOffer := 0
	if product.CategoryID != "" {
		category, err := s.categoryRepo.GetByID(ctx, product.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to load category %s: %w", product.CategoryID, err)
		}
		if category != nil {
			categoryOffer = category.CategoryOffer
		}
	}

	product.SalePrice, product.EffectiveOffer = calc.BestOfferPrice(product.RegularPrice, product.ProductOffer, categoryOffer)
	return nil
}

// SaveProduct prices and persists a product; create when it has no ID yet.
func (s *CatalogService) SaveProduct(ctx context.Context, product *models.Product) error {
	if err := s.ApplyBestOffer(ctx, product); err != nil {
		return err
	}
	if product.ID == "" {
		return s.productRepo.Create(ctx, product)
	}
	return s.productRepo.Update(ctx, product)
}

// UpdateCategoryOffer stores the new offer and batch-recomputes the sale
// price of every product in the category, not just products saved later.
func (s *CatalogService) UpdateCategoryOffer(ctx context.Context, categoryID string, offer int) error {
	if offer < 0 || offer > models.MaxCategoryOffer {
		return fmt.Errorf("%w: category offer must be between 0 and %d", ErrInvalidStatus, models.MaxCategoryOffer)
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrOrderNotFound
	}

	category.CategoryOffer = offer
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}

	return s.RepriceCategory(ctx, category)
}

// RepriceCategory re-derives pricing for every product referencing the
// category.
func (s *CatalogService) RepriceCategory(ctx context.Context, category *models.Category) error {
	products, err := s.productRepo.GetByCategoryID(ctx, category.ID)
	if err != nil {
		return err
	}

	for i := range products {
		salePrice, effectiveOffer := calc.BestOfferPrice(products[i].RegularPrice, products[i].ProductOffer, category.CategoryOffer)
		if err := s.productRepo.UpdatePricing(ctx, products[i].ID, salePrice, effectiveOffer); err != nil {
			return fmt.Errorf("failed to reprice product %s: %w", products[i].ID, err)
		}
	}

	log.Printf("CatalogService: repriced %d products for category %s (offer %d%%)", len(products), category.Name, category.CategoryOffer)
	return nil
}
