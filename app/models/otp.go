package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OtpPurposeSignup        = "signup"
	OtpPurposePasswordReset = "password_reset"
)

// OtpToken persists one pending OTP per (email, purpose) so verification
// survives a process restart and works across instances. The code itself is
// never stored, only its bcrypt hash.
type OtpToken struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Email     string    `gorm:"size:100;not null;index:idx_email_purpose,unique"`
	Purpose   string    `gorm:"size:30;not null;index:idx_email_purpose,unique"`
	CodeHash  string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *OtpToken) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

func (t *OtpToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
