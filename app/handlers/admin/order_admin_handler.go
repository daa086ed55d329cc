package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderAdminHandler struct {
	orderService *services.OrderService
	render       *render.Render
}

func NewOrderAdminHandler(orderService *services.OrderService, rnd *render.Render) *OrderAdminHandler {
	return &OrderAdminHandler{orderService: orderService, render: rnd}
}

// List serves the back-office order table: search over order code and
// customer name/email, status filter, date sort, pagination.
func (h *OrderAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	pg := handlers.ParsePagination(r, 20)

	filter := repositories.OrderListFilter{
		Search:  r.URL.Query().Get("q"),
		Status:  r.URL.Query().Get("status"),
		SortAsc: r.URL.Query().Get("sort") == "asc",
		Limit:   pg.Limit,
		Offset:  pg.Offset,
	}

	orders, total, err := h.orderService.ListAdmin(r.Context(), filter)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}

	type row struct {
		OrderCode     string `json:"order_code"`
		Customer      string `json:"customer"`
		Email         string `json:"email"`
		Status        string `json:"status"`
		PaymentMethod string `json:"payment_method"`
		PaymentStatus string `json:"payment_status"`
		FinalAmount   string `json:"final_amount"`
		Items         int    `json:"items"`
		OrderDate     string `json:"order_date"`
	}

	rows := make([]row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, row{
			OrderCode:     o.OrderCode,
			Customer:      o.User.Name,
			Email:         o.User.Email,
			Status:        o.Status,
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: o.PaymentStatus,
			FinalAmount:   format.INR(o.FinalAmount),
			Items:         len(o.OrderItems),
			OrderDate:     o.OrderDate.Format("2006-01-02 15:04"),
		})
	}

	handlers.RespondOK(h.render, w, map[string]interface{}{
		"orders": rows,
		"total":  total,
		"page":   pg.Page,
		"limit":  pg.Limit,
	})
}

func (h *OrderAdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondOK(h.render, w, order)
}

type updateStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an order along the lifecycle; the transition table in
// the service refuses terminal orders and invalid hops.
func (h *OrderAdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload updateStatusPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "a status is required")
		return
	}

	if err := h.orderService.AdminUpdateStatus(r.Context(), mux.Vars(r)["code"], payload.Status); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "order status updated")
}

func (h *OrderAdminHandler) ApproveReturn(w http.ResponseWriter, r *http.Request) {
	if err := h.orderService.ApproveReturn(r.Context(), mux.Vars(r)["itemID"]); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "return approved")
}

type rejectReturnPayload struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func (h *OrderAdminHandler) RejectReturn(w http.ResponseWriter, r *http.Request) {
	var payload rejectReturnPayload
	_ = handlers.DecodeAndValidate(r, &payload)

	if err := h.orderService.RejectReturn(r.Context(), mux.Vars(r)["itemID"], payload.Reason); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "return rejected")
}
