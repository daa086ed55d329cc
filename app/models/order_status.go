package models

// Order and order-item lifecycle. One transition table drives every status
// write in the system; handlers and services never compare statuses ad hoc.
const (
	OrderStatusPending        = "Pending"
	OrderStatusProcessing     = "Processing"
	OrderStatusShipped        = "Shipped"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
	OrderStatusReturned       = "Returned"
	OrderStatusReturnRejected = "Return Rejected"
	OrderStatusPaymentFailed  = "Payment Failed"
)

// orderTransitions lists the permitted next statuses. Delivered admits only
// the return-resolution statuses, which are reachable through the return
// workflow and never through a direct status update.
var orderTransitions = map[string][]string{
	OrderStatusPending:        {OrderStatusProcessing, OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled, OrderStatusPaymentFailed},
	OrderStatusProcessing:     {OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {OrderStatusReturned, OrderStatusReturnRejected},
	OrderStatusCancelled:      {},
	OrderStatusReturned:       {},
	OrderStatusReturnRejected: {},
	// A successful payment retry brings a failed order back into fulfilment.
	OrderStatusPaymentFailed: {OrderStatusProcessing, OrderStatusCancelled},
}

// ValidOrderStatus reports whether s names a known lifecycle status.
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether the state machine permits from → to.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether direct status writes are refused. Delivered
// is terminal for updates even though the return workflow may still move the
// order to Returned or Return Rejected.
func IsTerminalStatus(s string) bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned, OrderStatusReturnRejected:
		return true
	}
	return false
}

// Cancellable reports whether a whole order or single item may still be
// cancelled by the customer or an admin.
func Cancellable(s string) bool {
	return CanTransition(s, OrderStatusCancelled)
}
