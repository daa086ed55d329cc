package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// RazorpayGateway creates gateway orders through the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(client *razorpay.Client) *RazorpayGateway {
	return &RazorpayGateway{client: client}
}

// CreateOrder registers the amount with Razorpay and returns the gateway
// order id the frontend hands to the checkout widget. Razorpay wants the
// amount in paise.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency": "INR",
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create failed: %w", err)
	}
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order create returned no id")
	}
	return id, nil
}

// PaymentService verifies gateway callbacks and settles online orders.
type PaymentService struct {
	orderRepo   repositories.OrderRepository
	cartService *CartService
	keySecret   string
}

func NewPaymentService(orderRepo repositories.OrderRepository, cartService *CartService, keySecret string) *PaymentService {
	return &PaymentService{orderRepo: orderRepo, cartService: cartService, keySecret: keySecret}
}

// VerifySignature checks the HMAC-SHA256 of "<gatewayOrderID>|<paymentID>"
// under the key secret against the signature Razorpay sent, in constant time.
func VerifySignature(gatewayOrderID, paymentID, signature, keySecret string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ConfirmPayment settles the callback for an online order.
//
// A valid signature marks the order Paid and clears the customer's cart. An
// invalid one marks the order and its items Payment Failed; the stock stays
// reserved so a retry from the orders page does not oversell. The operation
// is idempotent: a replayed callback for an order that is already Paid does
// nothing.
func (s *PaymentService) ConfirmPayment(ctx context.Context, gatewayOrderID, paymentID, signature string) (*models.Order, error) {
	order, err := s.orderRepo.GetByRazorpayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}

	if !VerifySignature(gatewayOrderID, paymentID, signature, s.keySecret) {
		if err := s.orderRepo.UpdatePayment(ctx, order.ID, models.PaymentStatusFailed, paymentID); err != nil {
			return nil, err
		}
		if err := s.orderRepo.UpdateOrderAndItemsStatus(ctx, order.ID, order.Status, models.OrderStatusPaymentFailed); err != nil &&
			!errors.Is(err, repositories.ErrOrderStatusConflict) {
			return nil, err
		}
		log.Printf("PaymentService: signature mismatch for order %s", order.OrderCode)
		return nil, ErrSignatureMismatch
	}

	if err := s.orderRepo.UpdatePayment(ctx, order.ID, models.PaymentStatusPaid, paymentID); err != nil {
		return nil, err
	}
	if models.CanTransition(order.Status, models.OrderStatusProcessing) {
		err := s.orderRepo.UpdateOrderAndItemsStatus(ctx, order.ID, order.Status, models.OrderStatusProcessing)
		switch {
		case err == nil:
			order.Status = models.OrderStatusProcessing
		case errors.Is(err, repositories.ErrOrderStatusConflict):
			// The order moved under us; the payment itself is settled.
		default:
			return nil, err
		}
	}
	if err := s.cartService.Clear(ctx, order.UserID); err != nil {
		log.Printf("PaymentService: failed to clear cart for user %s: %v", order.UserID, err)
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.RazorpayPaymentID = paymentID
	log.Printf("PaymentService: order %s paid (payment %s)", order.OrderCode, paymentID)
	return order, nil
}

// MarkPaymentFailed records a dismissed or failed checkout widget without a
// signature. Stock stays reserved; the customer can retry or cancel.
func (s *PaymentService) MarkPaymentFailed(ctx context.Context, gatewayOrderID string) error {
	order, err := s.orderRepo.GetByRazorpayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}
	if err := s.orderRepo.UpdatePayment(ctx, order.ID, models.PaymentStatusFailed, ""); err != nil {
		return err
	}
	err = s.orderRepo.UpdateOrderAndItemsStatus(ctx, order.ID, order.Status, models.OrderStatusPaymentFailed)
	if errors.Is(err, repositories.ErrOrderStatusConflict) {
		return nil
	}
	return err
}
