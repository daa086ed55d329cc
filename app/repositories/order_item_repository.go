package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.OrderItem, error)
	Save(ctx context.Context, item *models.OrderItem) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db}
}

func (r *orderItemRepository) BulkCreate(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepository) GetByID(ctx context.Context, id string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) Save(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
