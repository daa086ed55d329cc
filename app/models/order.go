package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"
	PaymentMethodWallet = "Wallet"

	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

type Order struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	OrderCode string    `gorm:"size:50;uniqueIndex;not null" json:"order_code"`
	UserID    string    `gorm:"size:36;index;not null"`
	User      User      `gorm:"foreignKey:UserID"`
	OrderDate time.Time `gorm:"not null" json:"order_date"`

	OrderItems []OrderItem

	TotalPrice     decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Discount       decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	ShippingCost   decimal.Decimal `gorm:"type:decimal(16,2);default:0"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	CouponCode     string          `gorm:"size:50"`
	CouponDiscount decimal.Decimal `gorm:"type:decimal(16,2);default:0"`

	// Shipping address is copied onto the order at placement; later edits to
	// the user's address book must not rewrite history.
	AddressName    string `gorm:"size:255;not null"`
	AddressLine1   string `gorm:"type:text;not null"`
	AddressLine2   string `gorm:"type:text"`
	AddressCity    string `gorm:"size:100"`
	AddressState   string `gorm:"size:100"`
	AddressPincode string `gorm:"size:10"`
	AddressPhone   string `gorm:"size:20"`

	PaymentMethod     string `gorm:"size:10;default:'COD';not null"`
	PaymentStatus     string `gorm:"size:10;default:'Pending';not null"`
	RazorpayOrderID   string `gorm:"size:100;index"`
	RazorpayPaymentID string `gorm:"size:100"`

	Status      string     `gorm:"size:20;default:'Pending';not null"`
	InvoiceDate time.Time  `gorm:"not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.OrderCode == "" {
		o.OrderCode = GenerateOrderCode(time.Now())
	}
	return
}

// GenerateOrderCode builds the human-readable order id, e.g.
// ORD-20260901-9F3A21BC. The suffix is a uuid fragment so codes stay unique
// under the column's unique index even at high order volume.
func GenerateOrderCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// Prepaid reports whether a cancellation of this order must be refunded to
// the wallet.
func (o *Order) Prepaid() bool {
	return o.PaymentMethod == PaymentMethodOnline || o.PaymentMethod == PaymentMethodWallet
}
