package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type ProductAdminHandler struct {
	catalogService *services.CatalogService
	productRepo    repositories.ProductRepositoryImpl
	render         *render.Render
}

func NewProductAdminHandler(catalogService *services.CatalogService, productRepo repositories.ProductRepositoryImpl, rnd *render.Render) *ProductAdminHandler {
	return &ProductAdminHandler{catalogService: catalogService, productRepo: productRepo, render: rnd}
}

func (h *ProductAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	pg := handlers.ParsePagination(r, 20)

	products, total, err := h.productRepo.SearchPaginated(r.Context(), r.URL.Query().Get("q"), pg.Limit, pg.Offset)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}

	handlers.RespondOK(h.render, w, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     pg.Page,
		"limit":    pg.Limit,
	})
}

type variantPayload struct {
	Size     string `json:"size" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

type productPayload struct {
	Name         string           `json:"name" validate:"required,min=2,max=255"`
	Description  string           `json:"description"`
	CategoryID   string           `json:"category_id" validate:"required,uuid4"`
	RegularPrice string           `json:"regular_price" validate:"required"`
	ProductOffer int              `json:"product_offer" validate:"min=0,max=99"`
	Variants     []variantPayload `json:"variants" validate:"required,min=1,dive"`
}

// Create adds a product with its size variants. The sale price is derived
// from the best of product and category offers, never accepted from input.
func (h *ProductAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid product payload")
		return
	}

	price, err := decimal.NewFromString(payload.RegularPrice)
	if err != nil || !price.IsPositive() {
		handlers.RespondBadRequest(h.render, w, "regular price must be a positive amount")
		return
	}

	product := &models.Product{
		Name:         payload.Name,
		Slug:         slug.Make(payload.Name),
		Description:  payload.Description,
		CategoryID:   payload.CategoryID,
		RegularPrice: price,
		ProductOffer: payload.ProductOffer,
		Status:       models.ProductStatusAvailable,
	}

	total := 0
	for _, v := range payload.Variants {
		if !models.IsValidSize(v.Size) {
			handlers.RespondBadRequest(h.render, w, "invalid size "+v.Size)
			return
		}
		product.Variants = append(product.Variants, models.ProductVariant{Size: v.Size, Quantity: v.Quantity})
		total += v.Quantity
	}
	product.Stock = total
	if total == 0 {
		product.Status = models.ProductStatusOutOfStock
	}

	if err := h.catalogService.SaveProduct(r.Context(), product); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondCreated(h.render, w, product)
}

// Update edits product fields and re-derives pricing. Stock is not edited
// here; it moves only through reservations, restocks and variant restock
// endpoints.
func (h *ProductAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, err := h.productRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	if product == nil {
		_ = h.render.JSON(w, http.StatusNotFound, handlers.JSONResponse{Success: false, Message: "product not found"})
		return
	}

	var payload productPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid product payload")
		return
	}
	price, err := decimal.NewFromString(payload.RegularPrice)
	if err != nil || !price.IsPositive() {
		handlers.RespondBadRequest(h.render, w, "regular price must be a positive amount")
		return
	}

	product.Name = payload.Name
	product.Description = payload.Description
	product.CategoryID = payload.CategoryID
	product.RegularPrice = price
	product.ProductOffer = payload.ProductOffer
	product.Variants = nil

	if err := h.catalogService.SaveProduct(r.Context(), product); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondOK(h.render, w, product)
}

type blockPayload struct {
	Blocked bool `json:"blocked"`
}

func (h *ProductAdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	var payload blockPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid payload")
		return
	}

	if err := h.productRepo.SetBlocked(r.Context(), mux.Vars(r)["id"], payload.Blocked); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "product updated")
}

type restockPayload struct {
	Size string `json:"size" validate:"required"`
	Qty  int    `json:"qty" validate:"required,min=1"`
}

// Restock adds units to one size bucket.
func (h *ProductAdminHandler) Restock(w http.ResponseWriter, r *http.Request) {
	var payload restockPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid restock payload")
		return
	}
	if !models.IsValidSize(payload.Size) {
		handlers.RespondBadRequest(h.render, w, "invalid size "+payload.Size)
		return
	}

	if err := h.productRepo.Restock(r.Context(), mux.Vars(r)["id"], payload.Size, payload.Qty); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "stock updated")
}
