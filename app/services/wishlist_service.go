package services

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
)

type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	productRepo  repositories.ProductRepositoryImpl
}

func NewWishlistService(wishlistRepo repositories.WishlistRepository, productRepo repositories.ProductRepositoryImpl) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *WishlistService) Get(ctx context.Context, userID string) (*models.Wishlist, error) {
	return s.wishlistRepo.GetOrCreateByUserID(ctx, userID)
}

// Toggle adds the product when absent and removes it when present, returning
// whether the product is in the wishlist afterwards.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product == nil || product.IsBlocked {
		return false, ErrProductUnavailable
	}

	wishlist, err := s.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	existing, err := s.wishlistRepo.FindItem(ctx, wishlist.ID, productID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, s.wishlistRepo.RemoveItem(ctx, wishlist.ID, productID)
	}
	return true, s.wishlistRepo.AddItem(ctx, &models.WishlistItem{WishlistID: wishlist.ID, ProductID: productID})
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	wishlist, err := s.wishlistRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.wishlistRepo.RemoveItem(ctx, wishlist.ID, productID)
}
