package service

import (
	"context"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalResult struct {
	WithdrawalRequest *models.WithdrawalRequest `json:"withdrawal_request"`
	Transaction       *models.Transaction       `json:"transaction"`
	Fee               decimal.Decimal           `json:"fee"`
	TotalAmount       decimal.Decimal           `json:"total_amount"`
}

// CreateWithdrawal files a withdrawal request for admin review together with
// its pending ledger transaction, all-or-nothing. The balance is not debited
// here: funds are reserved optimistically (available balance excludes
// pending withdrawals) and the debit happens at approval.
func (s *Service) CreateWithdrawal(ctx context.Context, userID string, amount decimal.Decimal, currency models.Currency, address string) (*WithdrawalResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("withdrawal amount must be positive: %w", ErrValidation)
	}

	amount = amount.Round(utils.CurrencyScale(string(currency)))

	if currency == models.CurrencyBTC {
		if !utils.ValidateBTCAddress(address) {
			return nil, fmt.Errorf("address %q: %w", address, ErrInvalidAddress)
		}
		if amount.LessThan(s.minWithdrawal) || amount.GreaterThan(s.maxWithdrawal) {
			return nil, fmt.Errorf("amount %s outside [%s, %s]: %w",
				amount, s.minWithdrawal, s.maxWithdrawal, ErrValidation)
		}
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	fee := utils.CalculateFee(amount, string(currency), s.feeRates)
	totalAmount := amount.Add(fee)

	balance := user.BalanceBTC
	if currency == models.CurrencyRUB {
		balance = user.BalanceRUB
	}
	if balance.LessThan(totalAmount) {
		return nil, fmt.Errorf("need %s %s, have %s: %w",
			totalAmount, currency, balance, ErrInsufficientBalance)
	}

	withdrawal := &models.WithdrawalRequest{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        amount,
		Currency:      currency,
		WalletAddress: address,
		Status:        models.WithdrawalPending,
	}

	transaction := &models.Transaction{
		ID:                  uuid.NewString(),
		UserID:              userID,
		WalletID:            &wallet.ID,
		Type:                models.TransactionWithdrawal,
		Amount:              amount,
		Currency:            currency,
		Status:              models.TransactionPending,
		WalletAddress:       address,
		Fee:                 fee,
		WithdrawalRequestID: &withdrawal.ID,
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateWithdrawal(ctx, tx, withdrawal); err != nil {
		s.logger.Errorf("Failed to create withdrawal request for user %s: %v", userID, err)
		s.repo.Rollback(tx)
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx, transaction); err != nil {
		s.logger.Errorf("Failed to create withdrawal transaction for user %s: %v", userID, err)
		s.repo.Rollback(tx)
		return nil, err
	}

	if err := s.repo.Commit(tx); err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, "wallet.withdrawal_requested",
		fmt.Sprintf("withdrawal=%s amount=%s %s to=%s fee=%s", withdrawal.ID, amount, currency, address, fee))

	if s.notifier != nil {
		s.notifier.WithdrawalCreated(withdrawal)
	}

	return &WithdrawalResult{
		WithdrawalRequest: withdrawal,
		Transaction:       transaction,
		Fee:               fee,
		TotalAmount:       totalAmount,
	}, nil
}
