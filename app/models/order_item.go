package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID     string          `gorm:"size:36;not null;index" json:"order_id"`
	Order       Order           `gorm:"foreignKey:OrderID;references:ID"`
	ProductID   string          `gorm:"size:36;not null;index" json:"product_id"`
	Product     Product         `gorm:"foreignKey:ProductID;references:ID"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Size        string          `gorm:"size:5;not null" json:"size"`
	Qty         int             `gorm:"not null" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"line_total"`

	Status       string `gorm:"size:20;default:'Pending';not null"`
	CancelReason string `gorm:"type:text"`

	ReturnRequested   bool       `gorm:"default:false"`
	ReturnRequestedAt *time.Time
	ReturnApproved    bool       `gorm:"default:false"`
	ReturnRejected    bool       `gorm:"default:false"`
	ReturnReason      string     `gorm:"type:text"`
	RejectReason      string     `gorm:"type:text"`
	ReturnedOn        *time.Time

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}

// ReturnResolved reports whether an admin has already acted on this item's
// return; both outcomes are terminal per item.
func (oi *OrderItem) ReturnResolved() bool {
	return oi.ReturnApproved || oi.ReturnRejected
}

// RefundAmount is what an approved return credits back for this item.
func (oi *OrderItem) RefundAmount() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Qty)))
}
