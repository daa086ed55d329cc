package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/unrolled/render"
)

type WishlistHandler struct {
	wishlistService *services.WishlistService
	render          *render.Render
}

func NewWishlistHandler(wishlistService *services.WishlistService, rnd *render.Render) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, render: rnd}
}

func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.wishlistService.Get(r.Context(), middlewares.UserID(r))
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	type itemView struct {
		ProductID string `json:"product_id"`
		Name      string `json:"name"`
		Slug      string `json:"slug"`
		SalePrice string `json:"sale_price"`
		Status    string `json:"status"`
	}

	items := make([]itemView, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		if item.Product == nil {
			continue
		}
		items = append(items, itemView{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Slug:      item.Product.Slug,
			SalePrice: format.INR(item.Product.UnitPrice()),
			Status:    item.Product.Status,
		})
	}
	RespondOK(h.render, w, items)
}

type wishlistPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var payload wishlistPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "a product id is required")
		return
	}

	added, err := h.wishlistService.Toggle(r.Context(), middlewares.UserID(r), payload.ProductID)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondOK(h.render, w, map[string]bool{"in_wishlist": added})
}
