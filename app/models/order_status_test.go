package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPaymentFailed, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusOutForDelivery, OrderStatusCancelled, true},
		{OrderStatusPaymentFailed, OrderStatusCancelled, true},
		{OrderStatusPaymentFailed, OrderStatusProcessing, true},

		{OrderStatusDelivered, OrderStatusReturned, true},
		{OrderStatusDelivered, OrderStatusReturnRejected, true},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},

		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusReturned, OrderStatusDelivered, false},
		{OrderStatusReturnRejected, OrderStatusReturned, false},
		{OrderStatusPaymentFailed, OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := []string{OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned, OrderStatusReturnRejected}
	for _, s := range terminal {
		assert.True(t, IsTerminalStatus(s), s)
	}

	open := []string{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusPaymentFailed}
	for _, s := range open {
		assert.False(t, IsTerminalStatus(s), s)
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(OrderStatusPending))
	assert.True(t, Cancellable(OrderStatusOutForDelivery))
	assert.True(t, Cancellable(OrderStatusPaymentFailed))
	assert.False(t, Cancellable(OrderStatusDelivered))
	assert.False(t, Cancellable(OrderStatusCancelled))
	assert.False(t, Cancellable(OrderStatusReturned))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusOutForDelivery))
	assert.False(t, ValidOrderStatus("Refunded"))
	assert.False(t, ValidOrderStatus(""))
}
