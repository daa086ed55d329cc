package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepository
	render       *render.Render
}

func NewProductHandler(productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepository, rnd *render.Render) *ProductHandler {
	return &ProductHandler{productRepo: productRepo, categoryRepo: categoryRepo, render: rnd}
}

type productView struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Description    string            `json:"description,omitempty"`
	Category       string            `json:"category"`
	RegularPrice   string            `json:"regular_price"`
	SalePrice      string            `json:"sale_price"`
	EffectiveOffer int               `json:"effective_offer"`
	Status         string            `json:"status"`
	Stock          int               `json:"stock"`
	Sizes          map[string]int    `json:"sizes"`
}

func newProductView(p *models.Product) productView {
	sizes := make(map[string]int, len(p.Variants))
	for _, v := range p.Variants {
		sizes[v.Size] = v.Quantity
	}
	return productView{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Category:       p.Category.Name,
		RegularPrice:   format.INR(p.RegularPrice),
		SalePrice:      format.INR(p.UnitPrice()),
		EffectiveOffer: p.EffectiveOffer,
		Status:         p.Status,
		Stock:          p.Stock,
		Sizes:          sizes,
	}
}

// List serves the storefront catalog: paginated, optionally keyword-filtered,
// hiding blocked products and products in unlisted categories.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	pg := ParsePagination(r, 12)
	keyword := r.URL.Query().Get("q")

	var (
		products []models.Product
		total    int64
		err      error
	)
	if keyword != "" {
		products, total, err = h.productRepo.SearchPaginated(r.Context(), keyword, pg.Limit, pg.Offset)
	} else {
		products, total, err = h.productRepo.GetPaginated(r.Context(), pg.Limit, pg.Offset)
	}
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for i := range products {
		if !products[i].Category.IsListed {
			continue
		}
		views = append(views, newProductView(&products[i]))
	}

	RespondOK(h.render, w, map[string]interface{}{
		"products": views,
		"total":    total,
		"page":     pg.Page,
		"limit":    pg.Limit,
	})
}

func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	product, err := h.productRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	if product == nil || product.IsBlocked || !product.Category.IsListed {
		_ = h.render.JSON(w, http.StatusNotFound, JSONResponse{Success: false, Message: "product not found"})
		return
	}

	RespondOK(h.render, w, newProductView(product))
}
