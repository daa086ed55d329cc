package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/unrolled/render"
)

// JSONResponse is the envelope every endpoint answers with.
type JSONResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondOK(rnd *render.Render, w http.ResponseWriter, data interface{}) {
	_ = rnd.JSON(w, http.StatusOK, JSONResponse{Success: true, Data: data})
}

func RespondMessage(rnd *render.Render, w http.ResponseWriter, message string) {
	_ = rnd.JSON(w, http.StatusOK, JSONResponse{Success: true, Message: message})
}

func RespondCreated(rnd *render.Render, w http.ResponseWriter, data interface{}) {
	_ = rnd.JSON(w, http.StatusCreated, JSONResponse{Success: true, Data: data})
}

// RespondError maps service and repository sentinels onto HTTP statuses.
// Anything unrecognized is a 500 with a generic message; the detail stays in
// the log.
func RespondError(rnd *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrAddressNotFound):
		status = http.StatusNotFound
		message = err.Error()

	case errors.Is(err, services.ErrOrderTerminal),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrReturnAlreadyRequested),
		errors.Is(err, services.ErrReturnAlreadyResolved),
		errors.Is(err, services.ErrCouponAlreadyUsed),
		errors.Is(err, services.ErrCouponLimitReached),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, repositories.ErrCouponAlreadyUsed),
		errors.Is(err, repositories.ErrCouponDepleted):
		status = http.StatusConflict
		message = err.Error()

	case errors.Is(err, repositories.ErrInsufficientStock),
		errors.Is(err, repositories.ErrInsufficientBalance):
		status = http.StatusConflict
		message = err.Error()

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrOtpInvalid),
		errors.Is(err, services.ErrOtpExpired):
		status = http.StatusUnauthorized
		message = err.Error()

	case errors.Is(err, services.ErrUserBlocked):
		status = http.StatusForbidden
		message = err.Error()

	case errors.Is(err, services.ErrSignatureMismatch):
		status = http.StatusBadRequest
		message = err.Error()

	case errors.Is(err, services.ErrCartEmpty),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrCategoryUnlisted),
		errors.Is(err, services.ErrInvalidSize),
		errors.Is(err, services.ErrQuantityLimit),
		errors.Is(err, services.ErrMinQuantity),
		errors.Is(err, services.ErrCouponInvalid),
		errors.Is(err, services.ErrCouponExpired),
		errors.Is(err, services.ErrMinPurchase),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrReturnNotDelivered),
		errors.Is(err, services.ErrReturnNotRequested),
		errors.Is(err, services.ErrReturnReasonRequired),
		errors.Is(err, services.ErrReferralInvalid),
		errors.Is(err, services.ErrReferralAlreadyRedeemed),
		errors.Is(err, services.ErrReferralOwnCode):
		status = http.StatusBadRequest
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		log.Printf("handler error: %v", err)
	}
	_ = rnd.JSON(w, status, JSONResponse{Success: false, Message: message})
}

func RespondBadRequest(rnd *render.Render, w http.ResponseWriter, message string) {
	_ = rnd.JSON(w, http.StatusBadRequest, JSONResponse{Success: false, Message: message})
}

func RespondUnauthorized(rnd *render.Render, w http.ResponseWriter) {
	_ = rnd.JSON(w, http.StatusUnauthorized, JSONResponse{Success: false, Message: "login required"})
}

// Pagination reads ?page= and ?limit= with sane defaults.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request, defaultLimit int) Pagination {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
