package services

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"strings"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserBlocked        = errors.New("account is blocked")
)

// ReferralReward is credited to both sides of a successful referral.
var ReferralReward = decimal.NewFromInt(100)

const referralCodeLength = 8

type UserService struct {
	userRepo      repositories.UserRepositoryImpl
	walletService *WalletService
}

func NewUserService(userRepo repositories.UserRepositoryImpl, walletService *WalletService) *UserService {
	return &UserService{userRepo: userRepo, walletService: walletService}
}

// Register creates a customer account. Email ownership is expected to be
// proven via OTP before this is called. A valid referral code credits both
// the new user and the referrer exactly once.
func (s *UserService) Register(ctx context.Context, name, email, phone, password, referralCode string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	var referrer *models.User
	if referralCode != "" {
		referrer, err = s.userRepo.FindByReferralCode(ctx, strings.ToUpper(strings.TrimSpace(referralCode)))
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrReferralInvalid
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ownCode, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Password:     string(hash),
		Role:         models.RoleCustomer,
		ReferralCode: ownCode,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
		user.Redeemed = true
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if referrer != nil {
		if err := s.walletService.Credit(ctx, user.ID, ReferralReward, "Referral signup bonus", ""); err != nil {
			log.Printf("UserService: referral credit to new user %s failed: %v", user.ID, err)
		}
		if err := s.walletService.Credit(ctx, referrer.ID, ReferralReward, "Referral reward", ""); err != nil {
			log.Printf("UserService: referral credit to referrer %s failed: %v", referrer.ID, err)
		}
	}

	return user, nil
}

// ApplyReferral redeems a referral code for an account that signed up
// without one. Each account redeems at most once and never its own code; a
// successful redemption credits both wallets like a referral at signup.
func (s *UserService) ApplyReferral(ctx context.Context, userID, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	if user.Redeemed {
		return ErrReferralAlreadyRedeemed
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == user.ReferralCode {
		return ErrReferralOwnCode
	}
	referrer, err := s.userRepo.FindByReferralCode(ctx, code)
	if err != nil {
		return err
	}
	if referrer == nil {
		return ErrReferralInvalid
	}

	user.ReferredBy = &referrer.ID
	user.Redeemed = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.walletService.Credit(ctx, user.ID, ReferralReward, "Referral signup bonus", ""); err != nil {
		log.Printf("UserService: referral credit to user %s failed: %v", user.ID, err)
	}
	if err := s.walletService.Credit(ctx, referrer.ID, ReferralReward, "Referral reward", ""); err != nil {
		log.Printf("UserService: referral credit to referrer %s failed: %v", referrer.ID, err)
	}
	return nil
}

// Authenticate verifies credentials for login. Blocked accounts are refused
// even with a correct password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrUserBlocked
	}
	return user, nil
}

// ResetPassword replaces the password for an email whose OTP was already
// verified.
func (s *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	return s.userRepo.SetBlocked(ctx, id, blocked)
}

func (s *UserService) SearchCustomers(ctx context.Context, keyword string, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.SearchPaginated(ctx, keyword, limit, offset)
}

// uniqueReferralCode draws random codes until one is free; collisions on an
// 8-char alphanumeric space are rare enough that a few retries always settle.
func (s *UserService) uniqueReferralCode(ctx context.Context) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	for attempt := 0; attempt < 5; attempt++ {
		b := make([]byte, referralCodeLength)
		for i := range b {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return "", err
			}
			b[i] = alphabet[n.Int64()]
		}
		code := string(b)
		existing, err := s.userRepo.FindByReferralCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", errors.New("could not allocate referral code")
}
