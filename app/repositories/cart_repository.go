package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.Cart, error)
	GetCartWithItems(ctx context.Context, userID string) (*models.Cart, error)
	GetCartItemCount(ctx context.Context, userID string) (int, error)
	ClearCart(ctx context.Context, cartID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db}
}

func (r *cartRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetCartWithItems(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("CartItems.Product.Category").
		Preload("CartItems.Product.Variants").
		Preload("CartItems").
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetCartItemCount(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&count).Error

	return int(count), err
}

func (r *cartRepository) ClearCart(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
