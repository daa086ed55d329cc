package services

import (
	"context"
	"errors"
	"log"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/shopspring/decimal"
)

// WalletService fronts the append-only wallet ledger. Balance mutations are
// single repository calls that commit the balance change together with its
// ledger row, so the ledger always replays to the balance.
type WalletService struct {
	walletRepo repositories.WalletRepository
}

func NewWalletService(walletRepo repositories.WalletRepository) *WalletService {
	return &WalletService{walletRepo: walletRepo}
}

func (s *WalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return s.walletRepo.GetWithTransactions(ctx, userID)
}

func (s *WalletService) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	wallet, err := s.walletRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}

func (s *WalletService) Credit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error {
	if !amount.IsPositive() {
		return errors.New("credit amount must be positive")
	}
	if err := s.walletRepo.Credit(ctx, userID, amount, reason, orderCode); err != nil {
		return err
	}
	log.Printf("WalletService: credited %s to user %s (%s)", amount.StringFixed(2), userID, reason)
	return nil
}

func (s *WalletService) Debit(ctx context.Context, userID string, amount decimal.Decimal, reason, orderCode string) error {
	if !amount.IsPositive() {
		return errors.New("debit amount must be positive")
	}
	return s.walletRepo.Debit(ctx, userID, amount, reason, orderCode)
}
