package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *Repository) CreateTransaction(ctx context.Context, tx *gorm.DB, transaction *models.Transaction) error {
	db := tx
	if tx == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(transaction).Error
}

func (r *Repository) GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return &transaction, nil
}

func (r *Repository) GetTransactionByWithdrawalID(ctx context.Context, withdrawalID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).First(&transaction, "withdrawal_request_id = ?", withdrawalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction for withdrawal %s: %w", withdrawalID, err)
	}
	return &transaction, nil
}

// MarkTransactionProcessed transitions a pending transaction to a terminal
// status. Returns false when the row is missing or no longer pending, so a
// concurrent settlement loses cleanly.
func (r *Repository) MarkTransactionProcessed(ctx context.Context, tx *gorm.DB, id string, status models.TransactionStatus, txid string) (bool, error) {
	db := tx
	if tx == nil {
		db = r.db
	}

	updates := map[string]interface{}{"status": status}
	if txid != "" {
		updates["tx_id"] = txid
	}

	res := db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.TransactionPending).
		Updates(updates)

	if res.Error != nil {
		return false, fmt.Errorf("failed to update transaction status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListUserTransactions applies the conjunctive history filters, newest
// first, and reports the total match count for pagination.
func (r *Repository) ListUserTransactions(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ?", userID)

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Currency != nil {
		query = query.Where("currency = ?", *filter.Currency)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.Transaction
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// ListTransactions is the admin view across all users, optionally filtered
// by status.
func (r *Repository) ListTransactions(ctx context.Context, status *models.TransactionStatus, limit, offset int) ([]models.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.Transaction
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

func (r *Repository) SumPendingTransactions(ctx context.Context, userID string, txType models.TransactionType, currency models.Currency) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND currency = ? AND status = ?",
			userID, txType, currency, models.TransactionPending).
		Select("COALESCE(SUM(amount),0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum pending %s transactions: %w", txType, err)
	}
	return sum, nil
}
