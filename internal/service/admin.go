package service

import (
	"context"
	"fmt"
	"time"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/astralpay/wallet-api/utils"
)

// ApproveWithdrawal settles a pending withdrawal request: the request flips
// to approved, amount plus fee leaves the user's balance, and the linked
// ledger transaction completes with a generated txid. Everything runs inside
// one database transaction; a concurrent approve or reject on the same
// request loses on the status predicate and reports ErrAlreadyProcessed.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalID, adminID string) (*models.WithdrawalRequest, error) {
	withdrawal, err := s.repo.GetWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrNotFound)
	}
	if withdrawal.Status != models.WithdrawalPending {
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrAlreadyProcessed)
	}

	transaction, err := s.repo.GetTransactionByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	totalAmount := withdrawal.Amount
	if transaction != nil {
		totalAmount = totalAmount.Add(transaction.Fee)
	}
	processedAt := time.Now()

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.MarkWithdrawalProcessed(ctx, tx, withdrawalID, models.WithdrawalApproved, adminID, nil, processedAt)
	if err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}
	if !ok {
		s.repo.Rollback(tx)
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrAlreadyProcessed)
	}

	debited, err := s.repo.DebitUserBalance(ctx, tx, withdrawal.UserID, withdrawal.Currency, totalAmount)
	if err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}
	if !debited {
		// Balance dropped below the reserved total since the request was
		// filed. The approval does not go through on a negative balance.
		s.repo.Rollback(tx)
		return nil, fmt.Errorf("debit %s %s from user %s: %w",
			totalAmount, withdrawal.Currency, withdrawal.UserID, ErrInsufficientBalance)
	}

	if err := s.repo.AdjustWalletBalance(ctx, tx, withdrawal.UserID, withdrawal.Currency, totalAmount.Neg()); err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}

	if transaction != nil {
		settled, err := s.repo.MarkTransactionProcessed(ctx, tx, transaction.ID, models.TransactionCompleted, utils.GenerateTxID())
		if err != nil {
			s.repo.Rollback(tx)
			return nil, err
		}
		if !settled {
			// The ledger entry left pending some other way; approving on
			// top of it would double-settle.
			s.repo.Rollback(tx)
			return nil, fmt.Errorf("ledger transaction %s for withdrawal %s: %w", transaction.ID, withdrawalID, ErrAlreadyProcessed)
		}
	}

	if err := s.repo.Commit(tx); err != nil {
		return nil, err
	}

	s.logger.Infof("Withdrawal %s approved by %s: %s %s debited from user %s",
		withdrawalID, adminID, totalAmount, withdrawal.Currency, withdrawal.UserID)
	s.logActivity(ctx, withdrawal.UserID, "wallet.withdrawal_approved",
		fmt.Sprintf("withdrawal=%s admin=%s total=%s %s", withdrawalID, adminID, totalAmount, withdrawal.Currency))

	withdrawal.Status = models.WithdrawalApproved
	withdrawal.ApprovedBy = &adminID
	withdrawal.ProcessedAt = &processedAt

	if s.notifier != nil {
		s.notifier.WithdrawalProcessed(withdrawal)
	}

	return withdrawal, nil
}

// RejectWithdrawal declines a pending request with a reason; the linked
// transaction fails and no balance moves.
func (s *Service) RejectWithdrawal(ctx context.Context, withdrawalID, adminID, reason string) (*models.WithdrawalRequest, error) {
	withdrawal, err := s.repo.GetWithdrawalByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrNotFound)
	}
	if withdrawal.Status != models.WithdrawalPending {
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrAlreadyProcessed)
	}

	transaction, err := s.repo.GetTransactionByWithdrawalID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	processedAt := time.Now()

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.MarkWithdrawalProcessed(ctx, tx, withdrawalID, models.WithdrawalRejected, adminID, &reason, processedAt)
	if err != nil {
		s.repo.Rollback(tx)
		return nil, err
	}
	if !ok {
		s.repo.Rollback(tx)
		return nil, fmt.Errorf("withdrawal %s: %w", withdrawalID, ErrAlreadyProcessed)
	}

	if transaction != nil {
		if _, err := s.repo.MarkTransactionProcessed(ctx, tx, transaction.ID, models.TransactionFailed, ""); err != nil {
			s.repo.Rollback(tx)
			return nil, err
		}
	}

	if err := s.repo.Commit(tx); err != nil {
		return nil, err
	}

	s.logger.Infof("Withdrawal %s rejected by %s: %s", withdrawalID, adminID, reason)
	s.logActivity(ctx, withdrawal.UserID, "wallet.withdrawal_rejected",
		fmt.Sprintf("withdrawal=%s admin=%s reason=%s", withdrawalID, adminID, reason))

	withdrawal.Status = models.WithdrawalRejected
	withdrawal.ApprovedBy = &adminID
	withdrawal.RejectionReason = &reason
	withdrawal.ProcessedAt = &processedAt

	if s.notifier != nil {
		s.notifier.WithdrawalProcessed(withdrawal)
	}

	return withdrawal, nil
}

// ListTransactions is the admin ledger view across all users.
func (s *Service) ListTransactions(ctx context.Context, status *models.TransactionStatus, limit, offset int) ([]models.Transaction, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, status, limit, offset)
}

// ListWithdrawals lists withdrawal requests for the admin review queue.
func (s *Service) ListWithdrawals(ctx context.Context, status *models.WithdrawalStatus, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListWithdrawals(ctx, status, limit, offset)
}
