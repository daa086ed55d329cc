package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderUserID = "user-1"

type orderFixture struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	wallets  *fakeWalletRepo
	svc      *OrderService
}

func newOrderFixture(products ...*models.Product) *orderFixture {
	f := &orderFixture{
		products: newFakeProductRepo(products...),
		orders:   newFakeOrderRepo(),
		wallets:  newFakeWalletRepo(),
	}
	f.svc = NewOrderService(f.orders, &fakeOrderItemRepo{orders: f.orders}, f.products, NewWalletService(f.wallets))
	return f
}

type seedItem struct {
	product *models.Product
	size    string
	qty     int
	status  string
}

func (f *orderFixture) seedOrder(code, method, paymentStatus, status string, items ...seedItem) *models.Order {
	order := &models.Order{
		ID:            uuid.New().String(),
		OrderCode:     code,
		UserID:        orderUserID,
		PaymentMethod: method,
		PaymentStatus: paymentStatus,
		Status:        status,
	}
	total := decimal.Zero
	for _, it := range items {
		price := it.product.UnitPrice()
		lineTotal := price.Mul(decimal.NewFromInt(int64(it.qty)))
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   it.product.ID,
			ProductName: it.product.Name,
			Size:        it.size,
			Qty:         it.qty,
			Price:       price,
			LineTotal:   lineTotal,
			Status:      it.status,
		})
		total = total.Add(lineTotal)
	}
	order.TotalPrice = total
	order.FinalAmount = total
	f.orders.orders[order.ID] = order
	return order
}

func (f *orderFixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	w, err := f.wallets.GetOrCreateByUserID(context.Background(), orderUserID)
	require.NoError(t, err)
	return w.Balance
}

func TestCancelOrderCODNoRefund(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-1", models.PaymentMethodCOD, models.PaymentStatusPending, models.OrderStatusPending,
		seedItem{product, "M", 2, models.OrderStatusPending})

	require.NoError(t, f.svc.CancelOrder(ctx, "ORD-1", orderUserID, "changed my mind"))

	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, models.OrderStatusCancelled, stored.OrderItems[0].Status)
	assert.Equal(t, "changed my mind", stored.OrderItems[0].CancelReason)
	assert.Equal(t, 5, f.products.quantity(product.ID, "M"))
	assert.True(t, f.balance(t).IsZero(), "COD order must not refund")
}

func TestCancelOrderPaidRefundsWallet(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	f.seedOrder("ORD-2", models.PaymentMethodOnline, models.PaymentStatusPaid, models.OrderStatusProcessing,
		seedItem{product, "M", 2, models.OrderStatusProcessing})

	require.NoError(t, f.svc.CancelOrder(ctx, "ORD-2", orderUserID, ""))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2000)), "got %s", f.balance(t))
	assert.Equal(t, 5, f.products.quantity(product.ID, "M"))
}

func TestCancelOrderAfterItemCancelRefundsRemainder(t *testing.T) {
	ctx := context.Background()
	shirt := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	jeans := testProduct("Slim Jeans", 2000, map[string]int{"L": 2})
	f := newOrderFixture(shirt, jeans)
	order := f.seedOrder("ORD-17", models.PaymentMethodOnline, models.PaymentStatusPaid, models.OrderStatusProcessing,
		seedItem{shirt, "M", 1, models.OrderStatusProcessing},
		seedItem{jeans, "L", 1, models.OrderStatusProcessing})

	require.NoError(t, f.svc.CancelItem(ctx, "ORD-17", orderUserID, order.OrderItems[0].ID, "too small"))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(1000)), "got %s", f.balance(t))

	require.NoError(t, f.svc.CancelOrder(ctx, "ORD-17", orderUserID, "changed my mind"))

	// The whole-order refund covers only the line that was still live; the
	// credits together never exceed what the customer paid.
	assert.True(t, f.balance(t).Equal(order.FinalAmount), "got %s, paid %s", f.balance(t), order.FinalAmount)
	assert.Equal(t, 4, f.products.quantity(shirt.ID, "M"))
	assert.Equal(t, 3, f.products.quantity(jeans.ID, "L"))
}

func TestCancelOrderConcurrentCancelSkipsSideEffects(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	f.seedOrder("ORD-18", models.PaymentMethodOnline, models.PaymentStatusPaid, models.OrderStatusProcessing,
		seedItem{product, "M", 2, models.OrderStatusProcessing})

	// Two requests read the order as Processing before either cancels.
	stale, err := f.orders.GetByCode(ctx, "ORD-18")
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelOrder(ctx, "ORD-18", orderUserID, ""))

	// The request that lost the status transition must not restock or
	// refund again.
	assert.ErrorIs(t, f.svc.cancelWholeOrder(ctx, stale, ""), ErrAlreadyCancelled)
	assert.Equal(t, 5, f.products.quantity(product.ID, "M"))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2000)), "got %s", f.balance(t))
}

func TestCancelOrderDeliveredRefused(t *testing.T) {
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	f.seedOrder("ORD-3", models.PaymentMethodCOD, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{product, "M", 1, models.OrderStatusDelivered})

	err := f.svc.CancelOrder(context.Background(), "ORD-3", orderUserID, "")
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestCancelOrderTwiceRefused(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	f.seedOrder("ORD-4", models.PaymentMethodCOD, models.PaymentStatusPending, models.OrderStatusPending,
		seedItem{product, "M", 1, models.OrderStatusPending})

	require.NoError(t, f.svc.CancelOrder(ctx, "ORD-4", orderUserID, ""))
	err := f.svc.CancelOrder(ctx, "ORD-4", orderUserID, "")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	// Stock must not be restocked a second time.
	assert.Equal(t, 4, f.products.quantity(product.ID, "M"))
}

func TestCancelOrderNotOwner(t *testing.T) {
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	f.seedOrder("ORD-5", models.PaymentMethodCOD, models.PaymentStatusPending, models.OrderStatusPending,
		seedItem{product, "M", 1, models.OrderStatusPending})

	err := f.svc.CancelOrder(context.Background(), "ORD-5", "intruder", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelItemPartial(t *testing.T) {
	ctx := context.Background()
	shirt := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	jeans := testProduct("Slim Jeans", 1500, map[string]int{"L": 2})
	f := newOrderFixture(shirt, jeans)
	order := f.seedOrder("ORD-6", models.PaymentMethodOnline, models.PaymentStatusPaid, models.OrderStatusProcessing,
		seedItem{shirt, "M", 2, models.OrderStatusProcessing},
		seedItem{jeans, "L", 1, models.OrderStatusProcessing})

	shirtItem := order.OrderItems[0].ID
	require.NoError(t, f.svc.CancelItem(ctx, "ORD-6", orderUserID, shirtItem, "too small"))

	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusCancelled, stored.OrderItems[0].Status)
	assert.Equal(t, models.OrderStatusProcessing, stored.OrderItems[1].Status)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status, "order stays live while a line remains")

	// Only the cancelled line refunds and restocks.
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2000)), "got %s", f.balance(t))
	assert.Equal(t, 5, f.products.quantity(shirt.ID, "M"))
	assert.Equal(t, 2, f.products.quantity(jeans.ID, "L"))

	// Cancelling the last line collapses the order.
	require.NoError(t, f.svc.CancelItem(ctx, "ORD-6", orderUserID, order.OrderItems[1].ID, ""))
	assert.Equal(t, models.OrderStatusCancelled, f.orders.orders[order.ID].Status)
}

func TestRequestReturn(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-7", models.PaymentMethodCOD, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{product, "M", 1, models.OrderStatusDelivered})
	itemID := order.OrderItems[0].ID

	assert.ErrorIs(t, f.svc.RequestReturn(ctx, "ORD-7", orderUserID, itemID, "   "), ErrReturnReasonRequired)

	require.NoError(t, f.svc.RequestReturn(ctx, "ORD-7", orderUserID, itemID, "wrong size"))
	stored := f.orders.orders[order.ID].OrderItems[0]
	assert.True(t, stored.ReturnRequested)
	assert.Equal(t, "wrong size", stored.ReturnReason)
	assert.NotNil(t, stored.ReturnRequestedAt)

	assert.ErrorIs(t, f.svc.RequestReturn(ctx, "ORD-7", orderUserID, itemID, "again"), ErrReturnAlreadyRequested)
}

func TestRequestReturnBeforeDelivery(t *testing.T) {
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-8", models.PaymentMethodCOD, models.PaymentStatusPending, models.OrderStatusShipped,
		seedItem{product, "M", 1, models.OrderStatusShipped})

	err := f.svc.RequestReturn(context.Background(), "ORD-8", orderUserID, order.OrderItems[0].ID, "not needed")
	assert.ErrorIs(t, err, ErrReturnNotDelivered)
}

func TestApproveReturnCreditsWalletEvenForCOD(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-9", models.PaymentMethodCOD, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{product, "M", 2, models.OrderStatusDelivered})
	itemID := order.OrderItems[0].ID

	require.NoError(t, f.svc.RequestReturn(ctx, "ORD-9", orderUserID, itemID, "defective"))
	require.NoError(t, f.svc.ApproveReturn(ctx, itemID))

	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusReturned, stored.OrderItems[0].Status)
	assert.True(t, stored.OrderItems[0].ReturnApproved)
	assert.NotNil(t, stored.OrderItems[0].ReturnedOn)
	assert.Equal(t, models.OrderStatusReturned, stored.Status, "sole line returned settles the order")

	assert.Equal(t, 5, f.products.quantity(product.ID, "M"))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2000)), "got %s", f.balance(t))

	// Resolution is single shot.
	assert.ErrorIs(t, f.svc.ApproveReturn(ctx, itemID), ErrReturnAlreadyResolved)
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2000)), "no double credit")
}

func TestApproveReturnWithoutRequest(t *testing.T) {
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-10", models.PaymentMethodCOD, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{product, "M", 1, models.OrderStatusDelivered})

	err := f.svc.ApproveReturn(context.Background(), order.OrderItems[0].ID)
	assert.ErrorIs(t, err, ErrReturnNotRequested)
}

func TestRejectReturn(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-11", models.PaymentMethodOnline, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{product, "M", 1, models.OrderStatusDelivered})
	itemID := order.OrderItems[0].ID

	require.NoError(t, f.svc.RequestReturn(ctx, "ORD-11", orderUserID, itemID, "late delivery"))
	require.NoError(t, f.svc.RejectReturn(ctx, itemID, "used item"))

	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusReturnRejected, stored.OrderItems[0].Status)
	assert.Equal(t, "used item", stored.OrderItems[0].RejectReason)
	assert.Equal(t, models.OrderStatusReturnRejected, stored.Status)

	// No stock or money moves on rejection.
	assert.Equal(t, 3, f.products.quantity(product.ID, "M"))
	assert.True(t, f.balance(t).IsZero())

	assert.ErrorIs(t, f.svc.RejectReturn(ctx, itemID, "again"), ErrReturnAlreadyResolved)
}

func TestMixedReturnResolutionLeavesOrderDelivered(t *testing.T) {
	ctx := context.Background()
	shirt := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	jeans := testProduct("Slim Jeans", 1500, map[string]int{"L": 2})
	f := newOrderFixture(shirt, jeans)
	order := f.seedOrder("ORD-12", models.PaymentMethodCOD, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{shirt, "M", 1, models.OrderStatusDelivered},
		seedItem{jeans, "L", 1, models.OrderStatusDelivered})

	require.NoError(t, f.svc.RequestReturn(ctx, "ORD-12", orderUserID, order.OrderItems[0].ID, "defective"))
	require.NoError(t, f.svc.RequestReturn(ctx, "ORD-12", orderUserID, order.OrderItems[1].ID, "defective"))

	require.NoError(t, f.svc.ApproveReturn(ctx, order.OrderItems[0].ID))
	require.NoError(t, f.svc.RejectReturn(ctx, order.OrderItems[1].ID, "wear and tear"))

	assert.Equal(t, models.OrderStatusDelivered, f.orders.orders[order.ID].Status)
}

func TestAdminUpdateStatus(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-13", models.PaymentMethodCOD, models.PaymentStatusPending, models.OrderStatusPending,
		seedItem{product, "M", 1, models.OrderStatusPending})

	require.NoError(t, f.svc.AdminUpdateStatus(ctx, "ORD-13", models.OrderStatusProcessing))
	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
	assert.Equal(t, models.OrderStatusProcessing, stored.OrderItems[0].Status)

	// Moving backwards is refused.
	assert.ErrorIs(t, f.svc.AdminUpdateStatus(ctx, "ORD-13", models.OrderStatusPending), ErrInvalidTransition)
	assert.ErrorIs(t, f.svc.AdminUpdateStatus(ctx, "ORD-13", "Refunded"), ErrInvalidStatus)
	assert.ErrorIs(t, f.svc.AdminUpdateStatus(ctx, "ORD-13", models.OrderStatusReturned), ErrInvalidTransition)
}

func TestAdminDeliverCODSettlesPayment(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-14", models.PaymentMethodCOD, models.PaymentStatusPending, models.OrderStatusShipped,
		seedItem{product, "M", 1, models.OrderStatusShipped})

	require.NoError(t, f.svc.AdminUpdateStatus(ctx, "ORD-14", models.OrderStatusDelivered))
	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
}

func TestAdminUpdateStatusTerminalOrder(t *testing.T) {
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	f.seedOrder("ORD-15", models.PaymentMethodCOD, models.PaymentStatusPaid, models.OrderStatusDelivered,
		seedItem{product, "M", 1, models.OrderStatusDelivered})

	err := f.svc.AdminUpdateStatus(context.Background(), "ORD-15", models.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrOrderTerminal)
}

func TestAdminCancelRunsFullCancellation(t *testing.T) {
	ctx := context.Background()
	product := testProduct("Oxford Shirt", 1000, map[string]int{"M": 3})
	f := newOrderFixture(product)
	order := f.seedOrder("ORD-16", models.PaymentMethodWallet, models.PaymentStatusPaid, models.OrderStatusProcessing,
		seedItem{product, "M", 2, models.OrderStatusProcessing})

	require.NoError(t, f.svc.AdminUpdateStatus(ctx, "ORD-16", models.OrderStatusCancelled))
	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)
	assert.Equal(t, "Cancelled by admin", stored.OrderItems[0].CancelReason)
	assert.Equal(t, 5, f.products.quantity(product.ID, "M"))
	assert.True(t, f.balance(t).Equal(decimal.NewFromInt(2000)), "got %s", f.balance(t))
}
