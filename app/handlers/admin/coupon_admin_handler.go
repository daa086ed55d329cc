package admin

import (
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storefront/app/handlers"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

type CouponAdminHandler struct {
	couponRepo repositories.CouponRepository
	render     *render.Render
}

func NewCouponAdminHandler(couponRepo repositories.CouponRepository, rnd *render.Render) *CouponAdminHandler {
	return &CouponAdminHandler{couponRepo: couponRepo, render: rnd}
}

func (h *CouponAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	pg := handlers.ParsePagination(r, 20)

	coupons, total, err := h.couponRepo.SearchPaginated(r.Context(), r.URL.Query().Get("q"), pg.Limit, pg.Offset)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}

	handlers.RespondOK(h.render, w, map[string]interface{}{
		"coupons": coupons,
		"total":   total,
		"page":    pg.Page,
		"limit":   pg.Limit,
	})
}

type couponPayload struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Code          string `json:"code" validate:"required,min=3,max=50,alphanum"`
	DiscountType  string `json:"discount_type" validate:"required,oneof=percentage flat"`
	DiscountValue string `json:"discount_value" validate:"required"`
	MaxDiscount   string `json:"max_discount"`
	MinPurchase   string `json:"min_purchase"`
	MaxUsage      int    `json:"max_usage" validate:"required,min=1"`
	Visibility    string `json:"visibility" validate:"omitempty,oneof=public private"`
	Expiry        string `json:"expiry" validate:"required"`
}

func (p *couponPayload) toModel() (*models.Coupon, error) {
	value, err := decimal.NewFromString(p.DiscountValue)
	if err != nil || !value.IsPositive() {
		return nil, err
	}
	if p.DiscountType == models.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, err
	}

	maxDiscount := decimal.Zero
	if p.MaxDiscount != "" {
		if maxDiscount, err = decimal.NewFromString(p.MaxDiscount); err != nil {
			return nil, err
		}
	}
	minPurchase := decimal.Zero
	if p.MinPurchase != "" {
		if minPurchase, err = decimal.NewFromString(p.MinPurchase); err != nil {
			return nil, err
		}
	}
	expiry, err := time.Parse("2006-01-02", p.Expiry)
	if err != nil {
		return nil, err
	}

	visibility := p.Visibility
	if visibility == "" {
		visibility = models.CouponVisibilityPublic
	}

	return &models.Coupon{
		Name:          p.Name,
		Code:          strings.ToUpper(p.Code),
		DiscountType:  p.DiscountType,
		DiscountValue: value,
		MaxDiscount:   maxDiscount,
		MinPurchase:   minPurchase,
		MaxUsage:      p.MaxUsage,
		Visibility:    visibility,
		Expiry:        expiry,
		Status:        models.CouponStatusActive,
		IsActive:      true,
	}, nil
}

func (h *CouponAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload couponPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid coupon payload")
		return
	}

	coupon, err := payload.toModel()
	if err != nil || coupon == nil {
		handlers.RespondBadRequest(h.render, w, "invalid coupon values")
		return
	}

	existing, err := h.couponRepo.FindByCode(r.Context(), coupon.Code)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	if existing != nil {
		handlers.RespondBadRequest(h.render, w, "coupon code already exists")
		return
	}

	if err := h.couponRepo.Create(r.Context(), coupon); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondCreated(h.render, w, coupon)
}

func (h *CouponAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	coupon, err := h.couponRepo.FindByID(r.Context(), id)
	if err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	if coupon == nil {
		_ = h.render.JSON(w, http.StatusNotFound, handlers.JSONResponse{Success: false, Message: "coupon not found"})
		return
	}

	var payload couponPayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid coupon payload")
		return
	}
	updated, err := payload.toModel()
	if err != nil || updated == nil {
		handlers.RespondBadRequest(h.render, w, "invalid coupon values")
		return
	}

	coupon.Name = updated.Name
	coupon.DiscountType = updated.DiscountType
	coupon.DiscountValue = updated.DiscountValue
	coupon.MaxDiscount = updated.MaxDiscount
	coupon.MinPurchase = updated.MinPurchase
	coupon.MaxUsage = updated.MaxUsage
	coupon.Visibility = updated.Visibility
	coupon.Expiry = updated.Expiry

	if err := h.couponRepo.Update(r.Context(), coupon); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondOK(h.render, w, coupon)
}

type setActivePayload struct {
	Active bool `json:"active"`
}

func (h *CouponAdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var payload setActivePayload
	if err := handlers.DecodeAndValidate(r, &payload); err != nil {
		handlers.RespondBadRequest(h.render, w, "invalid payload")
		return
	}

	if err := h.couponRepo.SetActive(r.Context(), mux.Vars(r)["id"], payload.Active); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "coupon updated")
}

func (h *CouponAdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.couponRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handlers.RespondError(h.render, w, err)
		return
	}
	handlers.RespondMessage(h.render, w, "coupon deleted")
}
