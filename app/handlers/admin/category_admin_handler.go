package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/unrolled/render"
)

type CategoryAdminHandler struct {
	catalogService *services.CatalogService
	categoryRepo   repositories.CategoryRepository
	render         *render.Render
}

func NewCategoryAdminHandler(catalogService *services.CatalogService, categoryRepo repositories.CategoryRepository, rnd *render.Render) *CategoryAdminHandler {
	return &CategoryAdminHandler{catalogService: catalogService, categoryRepo: categoryRepo, render: rnd}
}

func (h *CategoryAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	pg := handlers.ParsePagination(r, 20)

	categories, total, err := h.categoryRepo.SearchPaginated(r.Context(), r.URL.Query().Get("q"), pg.Limit, pg.Offset)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}

	handlers.RespondOK(h.render, w, map[string]interface{}{
		"categories": categories,
		"total":      total,
		"page":       pg.Page,
		"limit":      pg.Limit,
	})
}

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (h *CategoryAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "a category name is required")
		return
	}

	category := &models.Category{
		Name:     payload.Name,
		Slug:     slug.Make(payload.Name),
		IsListed: true,
	}
	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondCreated(h.render, w, category)
}

func (h *CategoryAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	if category == nil {
		_ = h.render.JSON(w, http.StatusNotFound, handlers.JSONResponse{Success: false, Message: "category not found"})
		return
	}

	var payload categoryPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "a category name is required")
		return
	}

	category.Name = payload.Name
	category.Slug = slug.Make(payload.Name)
	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondOK(h.render, w, category)
}

type listedPayload struct {
	Listed bool `json:"listed"`
}

// SetListed hides or shows a category. Unlisting takes its products off the
// storefront without touching them.
func (h *CategoryAdminHandler) SetListed(w http.ResponseWriter, r *http.Request) {
	var payload listedPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid payload")
		return
	}

	if err := h.categoryRepo.SetListed(r.Context(), mux.Vars(r)["id"], payload.Listed); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "category updated")
}

type categoryOfferPayload struct {
	Offer int `json:"offer" validate:"min=0,max=89"`
}

// SetOffer stores the category offer and re-prices every product in the
// category.
func (h *CategoryAdminHandler) SetOffer(w http.ResponseWriter, r *http.Request) {
	var payload categoryOfferPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "offer must be between 0 and 89")
		return
	}

	if err := h.catalogService.UpdateCategoryOffer(r.Context(), mux.Vars(r)["id"], payload.Offer); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "category offer updated")
}
