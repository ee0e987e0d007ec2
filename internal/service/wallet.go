package service

import (
	"context"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetOrCreateWallet returns the user's wallet, allocating one with a fresh
// deposit address on first access. Safe under concurrent first-time calls:
// the insert is a no-op for the loser and both callers read the same row.
func (s *Service) GetOrCreateWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}

	address, err := s.generateDepositAddress(ctx)
	if err != nil {
		s.logger.Errorf("Failed to generate deposit address for user %s: %v", userID, err)
		return nil, err
	}

	fresh := &models.Wallet{
		ID:         uuid.NewString(),
		UserID:     userID,
		BTCAddress: address,
		BalanceBTC: decimal.Zero,
		BalanceRUB: decimal.Zero,
		IsActive:   true,
	}

	if err := s.repo.CreateWalletIfAbsent(ctx, fresh); err != nil {
		return nil, err
	}

	wallet, err = s.repo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet for user %s missing after create", userID)
	}

	return wallet, nil
}

// BalanceSummary reports confirmed balances alongside the pending BTC
// movement. Pending withdrawals reduce the available figure, pending
// deposits are informational.
func (s *Service) BalanceSummary(ctx context.Context, userID string) (*models.BalanceSummary, error) {
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

	pendingDeposits, err := s.repo.SumPendingTransactions(ctx, userID, models.TransactionDeposit, models.CurrencyBTC)
	if err != nil {
		return nil, err
	}

	pendingWithdrawals, err := s.repo.SumPendingTransactions(ctx, userID, models.TransactionWithdrawal, models.CurrencyBTC)
	if err != nil {
		return nil, err
	}

	return &models.BalanceSummary{
		BTCAddress:            wallet.BTCAddress,
		BalanceBTC:            user.BalanceBTC,
		BalanceRUB:            user.BalanceRUB,
		PendingDepositsBTC:    pendingDeposits,
		PendingWithdrawalsBTC: pendingWithdrawals,
		AvailableBTC:          user.BalanceBTC.Sub(pendingWithdrawals),
	}, nil
}

// TransactionHistory returns the user's ledger entries matching every
// supplied filter, newest first.
func (s *Service) TransactionHistory(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.config.HistoryDefaultLimit
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.ListUserTransactions(ctx, userID, filter)
}
