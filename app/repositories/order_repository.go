package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
)

// OrderListFilter carries the admin list query: free-text search over order
// code / customer name / email, optional status, date sort and paging.
type OrderListFilter struct {
	Search  string
	Status  string
	SortAsc bool
	Limit   int
	Offset  int
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByCode(ctx context.Context, orderCode string) (*models.Order, error)
	GetByCodeForUser(ctx context.Context, orderCode, userID string) (*models.Order, error)
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	ListAdmin(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID, fromStatus, toStatus string) error
	UpdateOrderAndItemsStatus(ctx context.Context, orderID, fromStatus, toStatus string) error
	UpdatePayment(ctx context.Context, orderID, paymentStatus, razorpayPaymentID string) error
	Save(ctx context.Context, order *models.Order) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("User").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.Product").
		Preload("User").
		First(&order, "order_code = ?", orderCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetByCodeForUser(ctx context.Context, orderCode, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Preload("OrderItems.Product").
		First(&order, "order_code = ? AND user_id = ?", orderCode, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		First(&order, "razorpay_order_id = ?", razorpayOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order

	err := r.db.WithContext(ctx).
		Preload("OrderItems.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) ListAdmin(ctx context.Context, filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})

	if s := strings.TrimSpace(filter.Search); s != "" {
		searchKeyword := "%" + strings.ToLower(s) + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("LOWER(orders.order_code) LIKE ? OR LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ?",
				searchKeyword, searchKeyword, searchKeyword)
	}
	if filter.Status != "" {
		query = query.Where("orders.status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "orders.created_at DESC"
	if filter.SortAsc {
		order = "orders.created_at ASC"
	}

	err := query.
		Preload("User").
		Preload("OrderItems").
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&orders).Error

	return orders, total, err
}

// UpdateStatus is a compare-and-swap: the write lands only if the order still
// has the status the caller read. Zero rows means another request moved the
// order first and the caller must not apply its side effects.
func (r *gormOrderRepository) UpdateStatus(ctx context.Context, orderID, fromStatus, toStatus string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderStatusConflict
	}
	return nil
}

// UpdateOrderAndItemsStatus moves the order and its items in one transaction,
// guarded by the same compare-and-swap as UpdateStatus. Items that already
// reached a per-item terminal state keep it; a later order-level update must
// not resurrect a cancelled or returned line.
func (r *gormOrderRepository) UpdateOrderAndItemsStatus(ctx context.Context, orderID, fromStatus, toStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, fromStatus).
			Update("status", toStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderStatusConflict
		}
		return tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status NOT IN ?", orderID,
				[]string{models.OrderStatusCancelled, models.OrderStatusReturned, models.OrderStatusReturnRejected}).
			Update("status", toStatus).Error
	})
}

func (r *gormOrderRepository) UpdatePayment(ctx context.Context, orderID, paymentStatus, razorpayPaymentID string) error {
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
		"updated_at":     time.Now(),
	}
	if razorpayPaymentID != "" {
		updates["razorpay_payment_id"] = razorpayPaymentID
	}
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

func (r *gormOrderRepository) Save(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(order).Error
}
