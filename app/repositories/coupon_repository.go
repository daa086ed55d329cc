package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id string) (*models.Coupon, error)
	SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Coupon, int64, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	Deactivate(ctx context.Context, id, status string) error
	HasRedeemed(ctx context.Context, couponID, userID string) (bool, error)
	Redeem(ctx context.Context, couponID, userID, orderCode string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db}
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) SearchPaginated(ctx context.Context, keyword string, limit, offset int) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Coupon{})
	if keyword != "" {
		searchKeyword := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", searchKeyword, searchKeyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&coupons).Error
	return coupons, total, err
}

func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id).Error
}

func (r *couponRepository) SetActive(ctx context.Context, id string, active bool) error {
	status := models.CouponStatusActive
	if !active {
		status = models.CouponStatusDisabled
	}
	return r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active": active,
		"status":    status,
	}).Error
}

func (r *couponRepository) Deactivate(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active": false,
		"status":    status,
	}).Error
}

func (r *couponRepository) HasRedeemed(ctx context.Context, couponID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count > 0, err
}

// Redeem commits one use of a coupon at order placement. The unique
// (coupon, user) index rejects a second redemption by the same user, and the
// `used_count < max_usage` guard rejects the use after the global cap; either
// failure rolls back with no writes.
func (r *couponRepository) Redeem(ctx context.Context, couponID, userID, orderCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		redemption := models.CouponRedemption{
			CouponID:  couponID,
			UserID:    userID,
			OrderCode: orderCode,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			var mysqlErr *mysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
				return ErrCouponAlreadyUsed
			}
			return err
		}

		res := tx.Model(&models.Coupon{}).
			Where("id = ? AND used_count < max_usage", couponID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCouponDepleted
		}

		// Auto-expire once the last slot is taken.
		return tx.Model(&models.Coupon{}).
			Where("id = ? AND used_count >= max_usage", couponID).
			Updates(map[string]interface{}{
				"is_active": false,
				"status":    models.CouponStatusExpired,
			}).Error
	})
}
