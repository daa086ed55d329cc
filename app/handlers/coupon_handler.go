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

type CouponHandler struct {
	couponService *services.CouponService
	cartService   *services.CartService
	sessions      sessions.SessionStore
	render        *render.Render
}

func NewCouponHandler(couponService *services.CouponService, cartService *services.CartService, store sessions.SessionStore, rnd *render.Render) *CouponHandler {
	return &CouponHandler{couponService: couponService, cartService: cartService, sessions: store, render: rnd}
}

type applyCouponPayload struct {
	Code string `json:"code" validate:"required,min=3,max=50"`
}

// Apply validates the code against the current cart subtotal and stores it
// on the session. Nothing is consumed until the order is placed.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var payload applyCouponPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "a coupon code is required")
		return
	}

	userID := middlewares.UserID(r)
	summary, err := h.cartService.GetSummary(r.Context(), userID, decimal.Zero)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	coupon, discount, err := h.couponService.Validate(r.Context(), payload.Code, userID, summary.Subtotal)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	if err := h.sessions.SetCoupon(w, r, coupon.Code, discount); err != nil {
		RespondError(h.render, w, err)
		return
	}

	RespondOK(h.render, w, map[string]interface{}{
		"code":     coupon.Code,
		"discount": format.INR(discount),
	})
}

func (h *CouponHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearCoupon(w, r); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "coupon removed")
}
