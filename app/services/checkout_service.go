package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
)

// PaymentGateway creates a gateway-side order for online payments. The
// Razorpay implementation lives in payment_service.go; tests substitute a
// fake.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (gatewayOrderID string, err error)
}

// PlaceOrderInput is what the checkout endpoint collects from the customer.
type PlaceOrderInput struct {
	UserID        string
	AddressID     string
	PaymentMethod string
	CouponCode    string
}

// PlaceOrderResult reports the created order plus what the client needs next:
// for online payments the gateway order id the frontend hands to the payment
// widget.
type PlaceOrderResult struct {
	Order           *models.Order
	RazorpayOrderID string
	// AwaitingPayment is true for online orders; the cart is kept until the
	// payment is verified.
	AwaitingPayment bool
}

type CheckoutService struct {
	cartService   *CartService
	couponService *CouponService
	walletService *WalletService
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	productRepo   repositories.ProductRepositoryImpl
	addressRepo   repositories.AddressRepository
	gateway       PaymentGateway
}

func NewCheckoutService(
	cartService *CartService,
	couponService *CouponService,
	walletService *WalletService,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepositoryImpl,
	addressRepo repositories.AddressRepository,
	gateway PaymentGateway,
) *CheckoutService {
	return &CheckoutService{
		cartService:   cartService,
		couponService: couponService,
		walletService: walletService,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		addressRepo:   addressRepo,
		gateway:       gateway,
	}
}

// PlaceOrder runs the whole placement flow:
//
//  1. revalidate the cart and recompute totals from the live catalog
//  2. re-validate the coupon against the fresh subtotal
//  3. reserve stock for every line atomically
//  4. for Wallet orders, debit the wallet (refunding the reservation on failure)
//  5. create the order with an address snapshot, then its items
//  6. redeem the coupon
//  7. clear the cart for COD and Wallet; online orders keep it until the
//     payment is verified
//
// Steps after the stock reservation compensate by restocking when they fail,
// so a failed placement leaves no reserved units behind.
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	switch input.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodOnline, models.PaymentMethodWallet:
	default:
		return nil, ErrInvalidStatus
	}

	address, err := s.addressRepo.FindAddressByID(ctx, input.AddressID)
	if err != nil {
		return nil, err
	}
	if address == nil || address.UserID != input.UserID {
		return nil, ErrAddressNotFound
	}

	summary, err := s.cartService.GetSummary(ctx, input.UserID, decimal.Zero)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 || summary.Subtotal.IsZero() {
		return nil, ErrCartEmpty
	}
	for _, line := range summary.Items {
		if !line.InStock {
			return nil, ErrProductUnavailable
		}
	}

	// The session discount is advisory only; the coupon is re-validated here
	// against the subtotal the order will actually carry.
	var coupon *models.Coupon
	discount := decimal.Zero
	if input.CouponCode != "" {
		coupon, discount, err = s.couponService.Validate(ctx, input.CouponCode, input.UserID, summary.Subtotal)
		if err != nil {
			return nil, err
		}
	}

	lines := make([]repositories.StockLine, 0, len(summary.Items))
	for _, line := range summary.Items {
		lines = append(lines, repositories.StockLine{
			ProductID: line.Item.ProductID,
			Size:      line.Item.Size,
			Qty:       line.Item.Qty,
		})
	}
	if err := s.productRepo.ReserveAll(ctx, lines); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		UserID:    input.UserID,
		OrderCode: models.GenerateOrderCode(now),
		OrderDate: now,

		TotalPrice:     summary.Subtotal,
		TaxAmount:      summary.Tax,
		ShippingCost:   summary.Shipping,
		Discount:       discount,
		CouponDiscount: discount,
		FinalAmount:    summary.Subtotal.Add(summary.Tax).Add(summary.Shipping).Sub(discount),

		AddressName:    address.Name,
		AddressLine1:   address.Line1,
		AddressLine2:   address.Line2,
		AddressCity:    address.City,
		AddressState:   address.State,
		AddressPincode: address.Pincode,
		AddressPhone:   address.Phone,

		PaymentMethod: input.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Status:        models.OrderStatusPending,
		InvoiceDate:   now,
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	if input.PaymentMethod == models.PaymentMethodWallet {
		if err := s.walletService.Debit(ctx, input.UserID, order.FinalAmount, "Order payment", order.OrderCode); err != nil {
			s.restockAll(ctx, lines)
			if errors.Is(err, repositories.ErrInsufficientBalance) {
				return nil, repositories.ErrInsufficientBalance
			}
			return nil, err
		}
		order.PaymentStatus = models.PaymentStatusPaid
		order.Status = models.OrderStatusProcessing
	}

	if input.PaymentMethod == models.PaymentMethodOnline {
		gatewayOrderID, err := s.gateway.CreateOrder(ctx, order.FinalAmount, order.OrderCode)
		if err != nil {
			s.restockAll(ctx, lines)
			return nil, err
		}
		order.RazorpayOrderID = gatewayOrderID
	}

	if err := s.orderRepo.Create(ctx, nil, order); err != nil {
		s.compensate(ctx, order, lines)
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(summary.Items))
	for _, line := range summary.Items {
		items = append(items, models.OrderItem{
			OrderID:     order.ID,
			ProductID:   line.Item.ProductID,
			ProductName: line.Product.Name,
			Size:        line.Item.Size,
			Qty:         line.Item.Qty,
			Price:       line.UnitPrice,
			LineTotal:   line.LineTotal,
			Status:      order.Status,
		})
	}
	if err := s.orderItemRepo.BulkCreate(ctx, nil, items); err != nil {
		s.compensate(ctx, order, lines)
		return nil, err
	}
	order.OrderItems = items

	if coupon != nil {
		if err := s.couponService.Redeem(ctx, coupon.ID, input.UserID, order.OrderCode); err != nil {
			s.compensate(ctx, order, lines)
			return nil, err
		}
	}

	result := &PlaceOrderResult{Order: order}
	switch input.PaymentMethod {
	case models.PaymentMethodOnline:
		result.RazorpayOrderID = order.RazorpayOrderID
		result.AwaitingPayment = true
	default:
		if err := s.cartService.Clear(ctx, input.UserID); err != nil {
			log.Printf("CheckoutService: failed to clear cart for user %s: %v", input.UserID, err)
		}
	}

	log.Printf("CheckoutService: placed order %s (%s, %s)", order.OrderCode, order.PaymentMethod, order.FinalAmount.StringFixed(2))
	return result, nil
}

func (s *CheckoutService) restockAll(ctx context.Context, lines []repositories.StockLine) {
	for _, line := range lines {
		if err := s.productRepo.Restock(ctx, line.ProductID, line.Size, line.Qty); err != nil {
			log.Printf("CheckoutService: restock failed for product %s size %s: %v", line.ProductID, line.Size, err)
		}
	}
}

// compensate unwinds a half-placed order: stock goes back, and a wallet debit
// already taken is credited back against the same order code.
func (s *CheckoutService) compensate(ctx context.Context, order *models.Order, lines []repositories.StockLine) {
	s.restockAll(ctx, lines)
	if order.PaymentMethod == models.PaymentMethodWallet && order.PaymentStatus == models.PaymentStatusPaid {
		if err := s.walletService.Credit(ctx, order.UserID, order.FinalAmount, "Order placement failed", order.OrderCode); err != nil {
			log.Printf("CheckoutService: compensation credit failed for order %s: %v", order.OrderCode, err)
		}
	}
}
