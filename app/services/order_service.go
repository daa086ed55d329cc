package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
)

// OrderService drives the order lifecycle: customer cancellations and
// returns, and the admin's status updates and return resolutions. Every
// status write goes through the transition table in models.
type OrderService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	productRepo   repositories.ProductRepositoryImpl
	walletService *WalletService
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepositoryImpl,
	walletService *WalletService,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		walletService: walletService,
	}
}

func (s *OrderService) GetForUser(ctx context.Context, orderCode, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByCodeForUser(ctx, orderCode, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

func (s *OrderService) ListAdmin(ctx context.Context, filter repositories.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(ctx, filter)
}

func (s *OrderService) GetByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	order, err := s.orderRepo.GetByCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder cancels a whole order for the customer. Every line that is not
// already cancelled or returned goes back to stock, and a prepaid order that
// was actually paid is refunded to the wallet in full.
func (s *OrderService) CancelOrder(ctx context.Context, orderCode, userID, reason string) error {
	order, err := s.GetForUser(ctx, orderCode, userID)
	if err != nil {
		return err
	}
	return s.cancelWholeOrder(ctx, order, reason)
}

// AdminCancelOrder is the same operation without the ownership check.
func (s *OrderService) AdminCancelOrder(ctx context.Context, orderCode, reason string) error {
	order, err := s.GetByCode(ctx, orderCode)
	if err != nil {
		return err
	}
	return s.cancelWholeOrder(ctx, order, reason)
}

func (s *OrderService) cancelWholeOrder(ctx context.Context, order *models.Order, reason string) error {
	if order.Status == models.OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	if !models.Cancellable(order.Status) {
		return ErrOrderTerminal
	}

	// Win the status transition before touching stock or money; a concurrent
	// cancel that got there first must not restock or refund twice.
	if err := s.orderRepo.UpdateOrderAndItemsStatus(ctx, order.ID, order.Status, models.OrderStatusCancelled); err != nil {
		if errors.Is(err, repositories.ErrOrderStatusConflict) {
			return ErrAlreadyCancelled
		}
		return err
	}

	for _, item := range order.OrderItems {
		if item.Status == models.OrderStatusCancelled || item.Status == models.OrderStatusReturned {
			continue
		}
		if err := s.productRepo.Restock(ctx, item.ProductID, item.Size, item.Qty); err != nil {
			return err
		}
	}

	if reason != "" {
		for i := range order.OrderItems {
			item := order.OrderItems[i]
			if item.Status == models.OrderStatusCancelled || item.Status == models.OrderStatusReturned {
				continue
			}
			item.Status = models.OrderStatusCancelled
			item.CancelReason = reason
			if err := s.orderItemRepo.Save(ctx, &item); err != nil {
				return err
			}
		}
	}

	if order.Prepaid() && order.PaymentStatus == models.PaymentStatusPaid {
		refund := remainingRefund(order)
		if refund.IsPositive() {
			if err := s.walletService.Credit(ctx, order.UserID, refund, "Order cancellation refund", order.OrderCode); err != nil {
				return err
			}
		}
	}

	log.Printf("OrderService: cancelled order %s", order.OrderCode)
	return nil
}

// remainingRefund is what a whole-order cancellation still owes the customer:
// the amount actually paid, minus the per-line refunds already issued when
// individual items were cancelled or returned earlier.
func remainingRefund(order *models.Order) decimal.Decimal {
	refund := order.FinalAmount
	for _, item := range order.OrderItems {
		if item.Status == models.OrderStatusCancelled || item.Status == models.OrderStatusReturned {
			refund = refund.Sub(item.RefundAmount())
		}
	}
	if refund.IsNegative() {
		return decimal.Zero
	}
	return refund
}

// CancelItem cancels one line of an order. The line's units go back to
// stock, and prepaid-and-paid orders get the line amount refunded. When the
// last live line is cancelled the order itself becomes Cancelled.
func (s *OrderService) CancelItem(ctx context.Context, orderCode, userID, itemID, reason string) error {
	order, err := s.GetForUser(ctx, orderCode, userID)
	if err != nil {
		return err
	}

	item := findItem(order, itemID)
	if item == nil {
		return ErrItemNotFound
	}
	if item.Status == models.OrderStatusCancelled {
		return ErrAlreadyCancelled
	}
	if !models.Cancellable(item.Status) {
		return ErrOrderTerminal
	}

	if err := s.productRepo.Restock(ctx, item.ProductID, item.Size, item.Qty); err != nil {
		return err
	}

	item.Status = models.OrderStatusCancelled
	item.CancelReason = reason
	if err := s.orderItemRepo.Save(ctx, item); err != nil {
		return err
	}

	if order.Prepaid() && order.PaymentStatus == models.PaymentStatusPaid {
		if err := s.walletService.Credit(ctx, order.UserID, item.RefundAmount(), "Item cancellation refund", order.OrderCode); err != nil {
			return err
		}
	}

	if allItemsHaveStatus(order, models.OrderStatusCancelled) {
		err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, models.OrderStatusCancelled)
		if errors.Is(err, repositories.ErrOrderStatusConflict) {
			return nil
		}
		return err
	}
	return nil
}

// RequestReturn opens a return for a delivered line. A reason is mandatory
// and only one request is allowed per line.
func (s *OrderService) RequestReturn(ctx context.Context, orderCode, userID, itemID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReturnReasonRequired
	}

	order, err := s.GetForUser(ctx, orderCode, userID)
	if err != nil {
		return err
	}
	item := findItem(order, itemID)
	if item == nil {
		return ErrItemNotFound
	}
	if item.Status != models.OrderStatusDelivered {
		return ErrReturnNotDelivered
	}
	if item.ReturnResolved() {
		return ErrReturnAlreadyResolved
	}
	if item.ReturnRequested {
		return ErrReturnAlreadyRequested
	}

	now := time.Now()
	item.ReturnRequested = true
	item.ReturnRequestedAt = &now
	item.ReturnReason = reason
	return s.orderItemRepo.Save(ctx, item)
}

// ApproveReturn resolves a pending return in the customer's favor: stock
// comes back and the line amount is credited to the wallet regardless of the
// original payment method. The resolution is single-shot.
func (s *OrderService) ApproveReturn(ctx context.Context, itemID string) error {
	item, err := s.orderItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.ReturnResolved() {
		return ErrReturnAlreadyResolved
	}
	if !item.ReturnRequested {
		return ErrReturnNotRequested
	}

	order, err := s.orderByID(ctx, item.OrderID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Restock(ctx, item.ProductID, item.Size, item.Qty); err != nil {
		return err
	}

	now := time.Now()
	item.ReturnApproved = true
	item.ReturnedOn = &now
	item.Status = models.OrderStatusReturned
	if err := s.orderItemRepo.Save(ctx, item); err != nil {
		return err
	}

	if err := s.walletService.Credit(ctx, order.UserID, item.RefundAmount(), "Return refund", order.OrderCode); err != nil {
		return err
	}

	return s.settleReturnedOrder(ctx, order, itemID, models.OrderStatusReturned)
}

// RejectReturn resolves a pending return against the customer. No stock or
// money moves; the line is marked Return Rejected.
func (s *OrderService) RejectReturn(ctx context.Context, itemID, rejectReason string) error {
	item, err := s.orderItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.ReturnResolved() {
		return ErrReturnAlreadyResolved
	}
	if !item.ReturnRequested {
		return ErrReturnNotRequested
	}

	item.ReturnRejected = true
	item.RejectReason = rejectReason
	item.Status = models.OrderStatusReturnRejected
	if err := s.orderItemRepo.Save(ctx, item); err != nil {
		return err
	}

	order, err := s.orderByID(ctx, item.OrderID)
	if err != nil {
		return err
	}
	return s.settleReturnedOrder(ctx, order, itemID, models.OrderStatusReturnRejected)
}

// settleReturnedOrder moves the order itself once every line has a return
// resolution: all returned lines make the order Returned, all rejected make
// it Return Rejected, a mix leaves the order Delivered.
func (s *OrderService) settleReturnedOrder(ctx context.Context, order *models.Order, resolvedItemID, resolvedStatus string) error {
	allReturned := true
	allRejected := true
	for _, item := range order.OrderItems {
		status := item.Status
		if item.ID == resolvedItemID {
			status = resolvedStatus
		}
		switch status {
		case models.OrderStatusReturned, models.OrderStatusCancelled:
			allRejected = false
		case models.OrderStatusReturnRejected:
			allReturned = false
		default:
			return nil
		}
	}

	settled := ""
	switch {
	case allReturned && models.CanTransition(order.Status, models.OrderStatusReturned):
		settled = models.OrderStatusReturned
	case allRejected && models.CanTransition(order.Status, models.OrderStatusReturnRejected):
		settled = models.OrderStatusReturnRejected
	default:
		return nil
	}

	err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, settled)
	if errors.Is(err, repositories.ErrOrderStatusConflict) {
		// Another resolution settled the order first.
		return nil
	}
	return err
}

// AdminUpdateStatus moves an order along the lifecycle. Terminal orders are
// refused, as are transitions the table does not permit and the
// return-resolution statuses, which are reachable only through the return
// workflow. Moving to Cancelled runs the full cancellation (restock and
// refund); delivering a COD order settles its payment.
func (s *OrderService) AdminUpdateStatus(ctx context.Context, orderCode, newStatus string) error {
	if !models.ValidOrderStatus(newStatus) {
		return ErrInvalidStatus
	}
	if newStatus == models.OrderStatusReturned || newStatus == models.OrderStatusReturnRejected {
		return ErrInvalidTransition
	}

	order, err := s.GetByCode(ctx, orderCode)
	if err != nil {
		return err
	}
	if models.IsTerminalStatus(order.Status) {
		return ErrOrderTerminal
	}
	if !models.CanTransition(order.Status, newStatus) {
		return ErrInvalidTransition
	}

	if newStatus == models.OrderStatusCancelled {
		return s.cancelWholeOrder(ctx, order, "Cancelled by admin")
	}

	if err := s.orderRepo.UpdateOrderAndItemsStatus(ctx, order.ID, order.Status, newStatus); err != nil {
		if errors.Is(err, repositories.ErrOrderStatusConflict) {
			return ErrInvalidTransition
		}
		return err
	}

	if newStatus == models.OrderStatusDelivered &&
		order.PaymentMethod == models.PaymentMethodCOD &&
		order.PaymentStatus != models.PaymentStatusPaid {
		return s.orderRepo.UpdatePayment(ctx, order.ID, models.PaymentStatusPaid, "")
	}
	return nil
}

func (s *OrderService) orderByID(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func findItem(order *models.Order, itemID string) *models.OrderItem {
	for i := range order.OrderItems {
		if order.OrderItems[i].ID == itemID {
			return &order.OrderItems[i]
		}
	}
	return nil
}

func allItemsHaveStatus(order *models.Order, status string) bool {
	for _, item := range order.OrderItems {
		if item.Status != status {
			return false
		}
	}
	return true
}
