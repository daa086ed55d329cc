package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WalletTxCredit = "Credit"
	WalletTxDebit  = "Debit"
)

// Wallet is a per-user ledger: Balance always equals the running sum of the
// transaction rows, and rows are append-only.
type Wallet struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID       string          `gorm:"size:36;uniqueIndex;not null"`
	User         User            `gorm:"foreignKey:UserID"`
	Balance      decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0"`
	Transactions []WalletTransaction `gorm:"foreignKey:WalletID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type WalletTransaction struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	WalletID  string          `gorm:"size:36;not null;index"`
	Type      string          `gorm:"size:10;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Reason    string          `gorm:"size:255"`
	OrderCode string          `gorm:"size:50;index"`
	CreatedAt time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}
