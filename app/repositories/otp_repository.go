package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/go-storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OtpRepository interface {
	Upsert(ctx context.Context, token *models.OtpToken) error
	Find(ctx context.Context, email, purpose string) (*models.OtpToken, error)
	Delete(ctx context.Context, email, purpose string) error
}

type otpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db}
}

// Upsert replaces any pending code for the same (email, purpose); re-sending
// an OTP invalidates the previous one.
func (r *otpRepository) Upsert(ctx context.Context, token *models.OtpToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}, {Name: "purpose"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_hash", "expires_at", "updated_at"}),
	}).Create(token).Error
}

func (r *otpRepository) Find(ctx context.Context, email, purpose string) (*models.OtpToken, error) {
	var token models.OtpToken
	err := r.db.WithContext(ctx).First(&token, "email = ? AND purpose = ?", email, purpose).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *otpRepository) Delete(ctx context.Context, email, purpose string) error {
	return r.db.WithContext(ctx).Where("email = ? AND purpose = ?", email, purpose).Delete(&models.OtpToken{}).Error
}
