package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-storefront/app/middlewares"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	userService *services.UserService
	otpService  *services.OtpService
	sessions    sessions.SessionStore
	render      *render.Render
}

func NewAuthHandler(userService *services.UserService, otpService *services.OtpService, store sessions.SessionStore, rnd *render.Render) *AuthHandler {
	return &AuthHandler{userService: userService, otpService: otpService, sessions: store, render: rnd}
}

type requestOtpPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestSignupOtp emails a signup code. The account is only created once
// the code is verified in Signup.
func (h *AuthHandler) RequestSignupOtp(w http.ResponseWriter, r *http.Request) {
	var payload requestOtpPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "a valid email is required")
		return
	}
	if err := h.otpService.Issue(r.Context(), payload.Email, models.OtpPurposeSignup); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "verification code sent")
}

type signupPayload struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,min=8,max=20"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Otp          string `json:"otp" validate:"required,len=6,numeric"`
	ReferralCode string `json:"referral_code" validate:"omitempty,alphanum,max=12"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload signupPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid signup payload")
		return
	}

	if err := h.otpService.Verify(r.Context(), payload.Email, models.OtpPurposeSignup, payload.Otp); err != nil {
		RespondError(h.render, w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), payload.Name, payload.Email, payload.Phone, payload.Password, payload.ReferralCode)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	if err := h.sessions.SetUserID(w, r, user.ID); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondCreated(h.render, w, map[string]interface{}{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"referral_code": user.ReferralCode,
	})
}

type applyReferralPayload struct {
	Code string `json:"code" validate:"required,alphanum,max=12"`
}

// ApplyReferral redeems a referral code after signup, for customers who
// skipped the code on the signup form.
func (h *AuthHandler) ApplyReferral(w http.ResponseWriter, r *http.Request) {
	var payload applyReferralPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "a referral code is required")
		return
	}
	if err := h.userService.ApplyReferral(r.Context(), middlewares.UserID(r), payload.Code); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "referral applied")
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "email and password are required")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}

	if user.Role == models.RoleAdmin {
		if err := h.sessions.SetAdminID(w, r, user.ID); err != nil {
			RespondError(h.render, w, err)
			return
		}
	}
	if err := h.sessions.SetUserID(w, r, user.ID); err != nil {
		RespondError(h.render, w, err)
		return
	}

	RespondOK(h.render, w, map[string]interface{}{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearSession(w, r); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "logged out")
}

// ForgotPassword emails a reset code for an existing account. The response
// does not reveal whether the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload requestOtpPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "a valid email is required")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), payload.Email)
	if err != nil {
		RespondError(h.render, w, err)
		return
	}
	if user != nil {
		if err := h.otpService.Issue(r.Context(), payload.Email, models.OtpPurposePasswordReset); err != nil {
			RespondError(h.render, w, err)
			return
		}
	}
	RespondMessage(h.render, w, "if the email exists, a reset code was sent")
}

type resetPasswordPayload struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordPayload
	if err := DecodeAndValidate(r, &payload); err != nil {
		RespondBadRequest(h.render, w, "invalid reset payload")
		return
	}

	if err := h.otpService.Verify(r.Context(), payload.Email, models.OtpPurposePasswordReset, payload.Otp); err != nil {
		RespondError(h.render, w, err)
		return
	}
	if err := h.userService.ResetPassword(r.Context(), payload.Email, payload.NewPassword); err != nil {
		RespondError(h.render, w, err)
		return
	}
	RespondMessage(h.render, w, "password updated")
}
