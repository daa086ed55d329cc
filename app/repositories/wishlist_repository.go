package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

type WishlistRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wishlist, error)
	FindItem(ctx context.Context, wishlistID, productID string) (*models.WishlistItem, error)
	AddItem(ctx context.Context, item *models.WishlistItem) error
	RemoveItem(ctx context.Context, wishlistID, productID string) error
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db}
}

func (r *wishlistRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where(models.Wishlist{UserID: userID}).
		FirstOrCreate(&wishlist).Error
	if err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (r *wishlistRepository) FindItem(ctx context.Context, wishlistID, productID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).First(&item, "wishlist_id = ? AND product_id = ?", wishlistID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *wishlistRepository) AddItem(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID string) error {
	return r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItem{}).Error
}
