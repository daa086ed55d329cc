package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	sessions        sessions.SessionStore
	render          *render.Render
	razorpayKeyID   string
}

func NewCheckoutHandler(checkoutService *services.CheckoutService, store sessions.SessionStore, rnd *render.Render, razorpayKeyID string) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, sessions: store, render: rnd, razorpayKeyID: razorpayKeyID}
}

type placeOrderPayload struct {
	AddressID     string `json:"address_id" validate:"required,uuid4"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=COD Online Wallet"`
}

// PlaceOrder places the order with the coupon currently on the session. For
// online payments the response carries what the Razorpay widget needs; for
// COD and Wallet the order is final immediately.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var payload placeOrderPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid checkout payload")
		return
	}

	couponCode, _, _ := h.sessions.GetCoupon(r)

	result, err := h.checkoutService.PlaceOrder(r.Context(), services.PlaceOrderInput{
		UserID:        middlewares.UserID(r),
		AddressID:     payload.AddressID,
		PaymentMethod: payload.PaymentMethod,
		CouponCode:    couponCode,
	})
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	_ = h.sessions.ClearCoupon(w, r)

	data := map[string]interface{}{
		"order_code":     result.Order.OrderCode,
		"status":         result.Order.Status,
		"payment_method": result.Order.PaymentMethod,
		"payment_status": result.Order.PaymentStatus,
		"final_amount":   format.INR(result.Order.FinalAmount),
	}
	if result.AwaitingPayment {
		data["razorpay_order_id"] = result.RazorpayOrderID
		data["razorpay_key_id"] = h.razorpayKeyID
		data["amount_paise"] = result.Order.FinalAmount.Mul(decimal.NewFromInt(100)).IntPart()
	}
	RespondCreated(h.render, w, data)
}
