package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type AddressHandler struct {
	addressRepo repositories.AddressRepository
	render      *render.Render
}

func NewAddressHandler(addressRepo repositories.AddressRepository, rnd *render.Render) *AddressHandler {
	return &AddressHandler{addressRepo: addressRepo, render: rnd}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.addressRepo.FindByUserID(r.Context(), middlewares.UserID(r))
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondOK(h.render, w, addresses)
}

type addressPayload struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Line1     string `json:"line1" validate:"required,min=3"`
	Line2     string `json:"line2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required,len=6,numeric"`
	Phone     string `json:"phone" validate:"required,min=8,max=20"`
	IsPrimary bool   `json:"is_primary"`
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload addressPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid address payload")
		return
	}

	address := &models.Address{
		UserID:    middlewares.UserID(r),
		Name:      payload.Name,
		Line1:     payload.Line1,
		Line2:     payload.Line2,
		City:      payload.City,
		State:     payload.State,
		Pincode:   payload.Pincode,
		Phone:     payload.Phone,
		IsPrimary: payload.IsPrimary,
	}
	if err := h.addressRepo.Create(r.Context(), address); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondCreated(h.render, w, address)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	address, err := h.addressRepo.FindAddressByID(r.Context(), id)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	if address == nil || address.UserID != middlewares.UserID(r) {
		_ = h.render.JSON(w, http.StatusNotFound, JSONResponse{Success: false, Message: "address not found"})
		return
	}

	var payload addressPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid address payload")
		return
	}

	address.Name = payload.Name
	address.Line1 = payload.Line1
	address.Line2 = payload.Line2
	address.City = payload.City
	address.State = payload.State
	address.Pincode = payload.Pincode
	address.Phone = payload.Phone
	address.IsPrimary = payload.IsPrimary

	if err := h.addressRepo.Update(r.Context(), address); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondOK(h.render, w, address)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.addressRepo.Delete(r.Context(), id, middlewares.UserID(r)); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "address deleted")
}
