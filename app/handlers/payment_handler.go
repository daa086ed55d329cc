package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/unrolled/render"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	render         *render.Render
}

func NewPaymentHandler(paymentService *services.PaymentService, rnd *render.Render) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, render: rnd}
}

type verifyPaymentPayload struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// Verify settles the Razorpay callback. Safe to call more than once for the
// same order.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var payload verifyPaymentPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid payment payload")
		return
	}

	order, err := h.paymentService.ConfirmPayment(r.Context(), payload.RazorpayOrderID, payload.RazorpayPaymentID, payload.RazorpaySignature)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	RespondOK(h.render, w, map[string]interface{}{
		"order_code":     order.OrderCode,
		"payment_status": order.PaymentStatus,
	})
}

type paymentFailedPayload struct {
	RazorpayOrderID string `json:"razorpay_order_id" validate:"required"`
}

// Failed records a dismissed or errored checkout widget.
func (h *PaymentHandler) Failed(w http.ResponseWriter, r *http.Request) {
	var payload paymentFailedPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid payment payload")
		return
	}

	if err := h.paymentService.MarkPaymentFailed(r.Context(), payload.RazorpayOrderID); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "payment marked as failed")
}
