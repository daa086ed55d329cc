package services

import "errors"

// Validation and state-conflict failures. Handlers translate these into
// structured {success:false, message} responses; anything not listed here is
// treated as an internal error.
var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrCategoryUnlisted   = errors.New("category unlisted")
	ErrInvalidSize        = errors.New("invalid size")
	ErrQuantityLimit      = errors.New("maximum 3 units allowed per product")
	ErrMinQuantity        = errors.New("minimum quantity is 1")

	ErrCouponInvalid      = errors.New("invalid or inactive coupon")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponLimitReached = errors.New("coupon usage limit reached")
	ErrCouponAlreadyUsed  = errors.New("coupon already used")
	ErrMinPurchase        = errors.New("cart subtotal below coupon minimum purchase")

	ErrOrderNotFound     = errors.New("order not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrAddressNotFound   = errors.New("address not found")
	ErrOrderTerminal     = errors.New("order is in a terminal status")
	ErrAlreadyCancelled  = errors.New("already cancelled")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not permitted")

	ErrReturnNotDelivered     = errors.New("only delivered items can be returned")
	ErrReturnAlreadyRequested = errors.New("return already requested for this item")
	ErrReturnAlreadyResolved  = errors.New("return already approved or rejected")
	ErrReturnNotRequested     = errors.New("no return request pending for this item")
	ErrReturnReasonRequired   = errors.New("return reason is required")

	ErrSignatureMismatch = errors.New("payment signature verification failed")

	ErrOtpInvalid = errors.New("invalid OTP")
	ErrOtpExpired = errors.New("OTP expired")

	ErrReferralInvalid         = errors.New("invalid referral code")
	ErrReferralAlreadyRedeemed = errors.New("referral already redeemed")
	ErrReferralOwnCode         = errors.New("cannot use your own referral code")
)
