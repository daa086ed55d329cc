package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpLength        = 6
	otpExpiryMinutes = 10
)

// OtpSender is the mail side of OTP delivery; *Mailer satisfies it.
type OtpSender interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

// OtpService issues and verifies one-time codes for signup and password
// reset. Codes live in the database keyed by (email, purpose), hashed with
// bcrypt, and a successful verification consumes the row.
type OtpService struct {
	otpRepo repositories.OtpRepository
	mailer  OtpSender
}

func NewOtpService(otpRepo repositories.OtpRepository, mailer OtpSender) *OtpService {
	return &OtpService{otpRepo: otpRepo, mailer: mailer}
}

// Issue generates a fresh code, replaces any pending one for the same
// (email, purpose) and emails it.
func (s *OtpService) Issue(ctx context.Context, email, purpose string) error {
	code, err := generateOtpCode()
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	token := &models.OtpToken{
		Email:     strings.ToLower(email),
		Purpose:   purpose,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(otpExpiryMinutes * time.Minute),
	}
	if err := s.otpRepo.Upsert(ctx, token); err != nil {
		return err
	}

	subject := "Your verification code"
	title := "Verify your email address"
	if purpose == models.OtpPurposePasswordReset {
		subject = "Your password reset code"
		title = "Reset your password"
	}
	return s.mailer.SendHTMLEmail(email, subject, BuildOtpEmailBody(title, code, otpExpiryMinutes))
}

// Verify checks a submitted code. A match deletes the token so the code is
// single-use; an expired token is deleted as well.
func (s *OtpService) Verify(ctx context.Context, email, purpose, code string) error {
	email = strings.ToLower(email)

	token, err := s.otpRepo.Find(ctx, email, purpose)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrOtpInvalid
	}
	if token.Expired(time.Now()) {
		_ = s.otpRepo.Delete(ctx, email, purpose)
		return ErrOtpExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(token.CodeHash), []byte(code)) != nil {
		return ErrOtpInvalid
	}
	return s.otpRepo.Delete(ctx, email, purpose)
}

func generateOtpCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpLength, n), nil
}
