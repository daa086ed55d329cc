package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	orderService *services.OrderService
	render       *render.Render
}

func NewOrderHandler(orderService *services.OrderService, rnd *render.Render) *OrderHandler {
	return &OrderHandler{orderService: orderService, render: rnd}
}

type orderItemView struct {
	ID              string `json:"id"`
	ProductName     string `json:"product_name"`
	Size            string `json:"size"`
	Qty             int    `json:"qty"`
	Price           string `json:"price"`
	LineTotal       string `json:"line_total"`
	Status          string `json:"status"`
	ReturnRequested bool   `json:"return_requested,omitempty"`
	ReturnApproved  bool   `json:"return_approved,omitempty"`
	ReturnRejected  bool   `json:"return_rejected,omitempty"`
}

type orderView struct {
	OrderCode     string          `json:"order_code"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Subtotal      string          `json:"subtotal"`
	Tax           string          `json:"tax"`
	Shipping      string          `json:"shipping"`
	Discount      string          `json:"discount"`
	CouponCode    string          `json:"coupon_code,omitempty"`
	FinalAmount   string          `json:"final_amount"`
	Items         []orderItemView `json:"items"`
	OrderDate     string          `json:"order_date"`
}

func newOrderView(o *models.Order) orderView {
	view := orderView{
		OrderCode:     o.OrderCode,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Subtotal:      format.INR(o.TotalPrice),
		Tax:           format.INR(o.TaxAmount),
		Shipping:      format.INR(o.ShippingCost),
		Discount:      format.INR(o.Discount),
		CouponCode:    o.CouponCode,
		FinalAmount:   format.INR(o.FinalAmount),
		OrderDate:     o.OrderDate.Format("2006-01-02 15:04"),
	}
	for _, item := range o.OrderItems {
		view.Items = append(view.Items, orderItemView{
			ID:              item.ID,
			ProductName:     item.ProductName,
			Size:            item.Size,
			Qty:             item.Qty,
			Price:           format.INR(item.Price),
			LineTotal:       format.INR(item.LineTotal),
			Status:          item.Status,
			ReturnRequested: item.ReturnRequested,
			ReturnApproved:  item.ReturnApproved,
			ReturnRejected:  item.ReturnRejected,
		})
	}
	return view
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListForUser(r.Context(), middlewares.UserID(r))
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	RespondOK(h.render, w, views)
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	orderCode := mux.Vars(r)["code"]

	order, err := h.orderService.GetForUser(r.Context(), orderCode, middlewares.UserID(r))
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondOK(h.render, w, newOrderView(order))
}

type cancelPayload struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderCode := mux.Vars(r)["code"]

	var payload cancelPayload
	_ = DecodeAndValidate(r, &payload)

	if err := h.orderService.CancelOrder(r.Context(), orderCode, middlewares.UserID(r), payload.Reason); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "order cancelled")
}

func (h *OrderHandler) CancelItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var payload cancelPayload
	_ = DecodeAndValidate(r, &payload)

	if err := h.orderService.CancelItem(r.Context(), vars["code"], middlewares.UserID(r), vars["itemID"], payload.Reason); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "item cancelled")
}

type returnPayload struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

func (h *OrderHandler) RequestReturn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var payload returnPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "a return reason is required")
		return
	}

	if err := h.orderService.RequestReturn(r.Context(), vars["code"], middlewares.UserID(r), vars["itemID"], payload.Reason); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "return requested")
}
