package service

import (
	"context"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DepositResult struct {
	Transaction    *models.Transaction `json:"transaction"`
	DepositAddress string              `json:"deposit_address"`
}

// CreateDeposit registers a pending incoming transfer to the user's deposit
// address. The balance is untouched until CompleteDeposit confirms it.
func (s *Service) CreateDeposit(ctx context.Context, userID string, amount decimal.Decimal, currency models.Currency) (*DepositResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("deposit amount must be positive: %w", ErrValidation)
	}

	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		WalletID:      &wallet.ID,
		Type:          models.TransactionDeposit,
		Amount:        amount.Round(utils.CurrencyScale(string(currency))),
		Currency:      currency,
		Status:        models.TransactionPending,
		WalletAddress: wallet.BTCAddress,
		Fee:           decimal.Zero,
	}

	if err := s.repo.CreateTransaction(ctx, nil, transaction); err != nil {
		s.logger.Errorf("Failed to create deposit transaction for user %s: %v", userID, err)
		return nil, err
	}

	s.logActivity(ctx, userID, "wallet.deposit_created",
		fmt.Sprintf("amount=%s currency=%s", transaction.Amount, currency))

	return &DepositResult{
		Transaction:    transaction,
		DepositAddress: wallet.BTCAddress,
	}, nil
}

// CompleteDeposit settles a pending deposit: the transaction gets a txid and
// flips to completed, the user's balance (and the wallet mirror) is credited
// in the same database transaction. The only place funds enter a balance.
func (s *Service) CompleteDeposit(ctx context.Context, transactionID string) (*models.Transaction, error) {
	transaction, err := s.repo.GetTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrNotFound)
	}
	// Settling anything but a deposit here would credit a debit-side entry.
	if transaction.Type != models.TransactionDeposit {
		return nil, fmt.Errorf("transaction %s has type %s: %w", transactionID, transaction.Type, ErrValidation)
	}
	if transaction.Status != models.TransactionPending {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrAlreadyProcessed)
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}

	txid := utils.GenerateTxID()

	ok, err := s.repo.MarkTransactionProcessed(ctx, tx, transactionID, models.TransactionCompleted, txid)
	if err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent settlement.
		s.repo.Rollback(tx)
		return nil, fmt.Errorf("transaction %s: %w", transactionID, ErrAlreadyProcessed)
	}

	if err := s.repo.CreditUserBalance(ctx, tx, transaction.UserID, transaction.Currency, transaction.Amount); err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}

	if err := s.repo.AdjustWalletBalance(ctx, tx, transaction.UserID, transaction.Currency, transaction.Amount); err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}

	if err := s.repo.Commit(tx); err != nil {
		return nil, err
	}

	s.logger.Infof("Deposit %s completed: %s %s credited to user %s",
		transactionID, transaction.Amount, transaction.Currency, transaction.UserID)
	s.logActivity(ctx, transaction.UserID, "wallet.deposit_completed",
		fmt.Sprintf("transaction=%s amount=%s %s", transactionID, transaction.Amount, transaction.Currency))

	transaction.Status = models.TransactionCompleted
	transaction.TxID = txid
	return transaction, nil
}
