package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockLine is one (product, size, qty) reservation request.
type StockLine struct {
	ProductID string
	Size      string
	Qty       int
}

type ProductRepositoryImpl interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error)
	GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	SetBlocked(ctx context.Context, id string, blocked bool) error
	UpdatePricing(ctx context.Context, id string, salePrice decimal.Decimal, effectiveOffer int) error

	ReserveAll(ctx context.Context, lines []StockLine) error
	Restock(ctx context.Context, productID, size string, qty int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Preload("Variants").Limit(20).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByCategoryID(ctx context.Context, categoryID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Find(&products).Error
	return products, err
}

func (p *productRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.db.WithContext(ctx).Model(&models.Product{}).Where("is_blocked = ?", false).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Where("is_blocked = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	searchKeyword := "%" + strings.ToLower(keyword) + "%"

	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchKeyword, searchKeyword).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchKeyword, searchKeyword).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return p.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_blocked", blocked).Error
}

func (p *productRepository) UpdatePricing(ctx context.Context, id string, salePrice decimal.Decimal, effectiveOffer int) error {
	return p.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sale_price":      salePrice,
		"effective_offer": effectiveOffer,
	}).Error
}

// ReserveAll decrements every requested size variant inside one transaction.
// Each decrement is guarded with `quantity >= ?`, so two orders racing for the
// last unit cannot both win; any line that cannot be satisfied rolls the whole
// reservation back.
func (p *productRepository) ReserveAll(ctx context.Context, lines []StockLine) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			res := tx.Model(&models.ProductVariant{}).
				Where("product_id = ? AND size = ? AND quantity >= ?", line.ProductID, line.Size, line.Qty).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: product %s size %s qty %d", ErrInsufficientStock, line.ProductID, line.Size, line.Qty)
			}
		}
		for _, line := range lines {
			if err := refreshAggregateStock(tx, line.ProductID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Restock reverses a reservation for one line (cancellation or approved
// return) and re-derives the aggregate in the same transaction.
func (p *productRepository) Restock(ctx context.Context, productID, size string, qty int) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProductVariant{}).
			Where("product_id = ? AND size = ?", productID, size).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return refreshAggregateStock(tx, productID)
	})
}

// refreshAggregateStock re-derives products.stock from the variant buckets.
// Variant quantity is the single source of truth.
func refreshAggregateStock(tx *gorm.DB, productID string) error {
	err := tx.Exec(
		`UPDATE products SET stock = (
			SELECT COALESCE(SUM(quantity), 0) FROM product_variants WHERE product_id = ?
		) WHERE id = ?`, productID, productID).Error
	if err != nil {
		return err
	}
	return tx.Exec(
		`UPDATE products
		 SET status = CASE WHEN stock <= 0 THEN ? ELSE ? END
		 WHERE id = ? AND status <> ?`,
		models.ProductStatusOutOfStock, models.ProductStatusAvailable,
		productID, models.ProductStatusDiscontinued).Error
}
