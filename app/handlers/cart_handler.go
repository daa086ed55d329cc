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

type CartHandler struct {
	cartService   *services.CartService
	couponService *services.CouponService
	sessions      sessions.SessionStore
	render        *render.Render
}

func NewCartHandler(cartService *services.CartService, couponService *services.CouponService, store sessions.SessionStore, rnd *render.Render) *CartHandler {
	return &CartHandler{cartService: cartService, couponService: couponService, sessions: store, render: rnd}
}

type cartLineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
	InStock   bool   `json:"in_stock"`
}

type cartView struct {
	Items    []cartLineView `json:"items"`
	Subtotal string         `json:"subtotal"`
	Tax      string         `json:"tax"`
	Shipping string         `json:"shipping"`
	Discount string         `json:"discount"`
	Coupon   string         `json:"coupon,omitempty"`
	Total    string         `json:"total"`
	Adjusted []string       `json:"adjusted,omitempty"`
}

func (h *CartHandler) cartView(summary *services.CartSummary, couponCode string, discount decimal.Decimal) cartView {
	view := cartView{
		Subtotal: format.INR(summary.Subtotal),
		Tax:      format.INR(summary.Tax),
		Shipping: format.INR(summary.Shipping),
		Discount: format.INR(discount),
		Coupon:   couponCode,
		Total:    format.INR(summary.Total),
		Adjusted: summary.Adjusted,
	}
	for _, line := range summary.Items {
		view.Items = append(view.Items, cartLineView{
			ProductID: line.Item.ProductID,
			Name:      line.Product.Name,
			Size:      line.Item.Size,
			Qty:       line.Item.Qty,
			UnitPrice: format.INR(line.UnitPrice),
			LineTotal: format.INR(line.LineTotal),
			InStock:   line.InStock,
		})
	}
	return view
}

// Get renders the cart with live revalidation. An applied coupon is
// re-checked against the fresh subtotal and silently dropped when it no
// longer qualifies.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middlewares.UserID(r)

	couponCode, _, ok := h.sessions.GetCoupon(r)
	discount := decimal.Zero

	summary, err := h.cartService.GetSummary(r.Context(), userID, decimal.Zero)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	if ok {
		_, fresh, err := h.couponService.Validate(r.Context(), couponCode, userID, summary.Subtotal)
		if err != nil {
			couponCode = ""
			_ = h.sessions.ClearCoupon(w, r)
		} else {
			discount = fresh
			summary, err = h.cartService.GetSummary(r.Context(), userID, discount)
			if err != nil {
				RespondError(h.render, w, err)
				return
			}
		}
	}

	RespondOK(h.render, w, h.cartView(summary, couponCode, discount))
}

type cartItemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required"`
	Qty       int    `json:"qty" validate:"required,min=1"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload cartItemPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid cart payload")
		return
	}

	if err := h.cartService.AddItem(r.Context(), middlewares.UserID(r), payload.ProductID, payload.Size, payload.Qty); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "added to cart")
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload cartItemPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid cart payload")
		return
	}

	if err := h.cartService.UpdateQuantity(r.Context(), middlewares.UserID(r), payload.ProductID, payload.Size, payload.Qty); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "cart updated")
}

type cartRemovePayload struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Size      string `json:"size" validate:"required"`
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	var payload cartRemovePayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid cart payload")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), middlewares.UserID(r), payload.ProductID, payload.Size); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "removed from cart")
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.cartService.ItemCount(r.Context(), middlewares.UserID(r))
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondOK(h.render, w, map[string]int{"count": count})
}
