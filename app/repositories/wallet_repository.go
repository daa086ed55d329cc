package repositories

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	GetWithTransactions(ctx context.Context, userID string) (*models.Wallet, error)
	Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error
	Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db}
}

func (r *walletRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where(models.Wallet{UserID: userID}).
		FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) GetWithTransactions(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where(models.Wallet{UserID: userID}).
		FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit always succeeds: the balance bump and the ledger row commit together.
func (r *walletRepository) Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			UpdateColumn("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}

		return tx.Create(&models.WalletTransaction{
			WalletID:  wallet.ID,
			Type:      models.WalletTxCredit,
			Amount:    amount,
			Reason:    reason,
			OrderCode: orderCode,
		}).Error
	})
}

// Debit only succeeds when the balance covers the amount; the guarded UPDATE
// and the ledger row are one transaction, so a failed debit records nothing.
func (r *walletRepository) Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ?", wallet.ID, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		return tx.Create(&models.WalletTransaction{
			WalletID:  wallet.ID,
			Type:      models.WalletTxDebit,
			Amount:    amount,
			Reason:    reason,
			OrderCode: orderCode,
		}).Error
	})
}
