package repositories

import "errors"

// Failures surfaced by conditional updates. Each one means the guarded WHERE
// clause matched zero rows, so nothing was written.
var (
	ErrInsufficientStock   = errors.New("insufficient product stock")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrCouponDepleted      = errors.New("coupon usage limit reached")
	ErrCouponAlreadyUsed   = errors.New("coupon already used by this user")
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
)
