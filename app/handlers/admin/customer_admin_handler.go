package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CustomerAdminHandler struct {
	userService *services.UserService
	render      *render.Render
}

func NewCustomerAdminHandler(userService *services.UserService, rnd *render.Render) *CustomerAdminHandler {
	return &CustomerAdminHandler{userService: userService, render: rnd}
}

func (h *CustomerAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	pg := handlers.ParsePagination(r, 20)

	users, total, err := h.userService.SearchCustomers(r.Context(), r.URL.Query().Get("q"), pg.Limit, pg.Offset)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}

	type row struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone,omitempty"`
		IsBlocked bool   `json:"is_blocked"`
		Joined    string `json:"joined"`
	}

	rows := make([]row, 0, len(users))
	for _, u := range users {
		rows = append(rows, row{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Phone:     u.Phone,
			IsBlocked: u.IsBlocked,
			Joined:    u.CreatedAt.Format("2006-01-02"),
		})
	}

	handlers.RespondOK(h.render, w, map[string]interface{}{
		"customers": rows,
		"total":     total,
		"page":      pg.Page,
		"limit":     pg.Limit,
	})
}

type blockCustomerPayload struct {
	Blocked bool `json:"blocked"`
}

// SetBlocked blocks or unblocks a customer. A blocked customer's session is
// rejected on their next request.
func (h *CustomerAdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	var payload blockCustomerPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid payload")
		return
	}

	if err := h.userService.SetBlocked(r.Context(), mux.Vars(r)["id"], payload.Blocked); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "customer updated")
}
