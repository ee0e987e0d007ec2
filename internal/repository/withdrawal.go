package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/astralpay/wallet-api/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateWithdrawal(ctx context.Context, tx *gorm.DB, withdrawal *models.WithdrawalRequest) error {
	db := tx
	if tx == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(withdrawal).Error
}

func (r *Repository) GetWithdrawalByID(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	var withdrawal models.WithdrawalRequest
	err := r.db.WithContext(ctx).First(&withdrawal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get withdrawal %s: %w", id, err)
	}
	return &withdrawal, nil
}

func (r *Repository) ListWithdrawals(ctx context.Context, status *models.WithdrawalStatus, limit, offset int) ([]models.WithdrawalRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WithdrawalRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}

	var withdrawals []models.WithdrawalRequest
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&withdrawals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawals: %w", err)
	}

	return withdrawals, total, nil
}

// MarkWithdrawalProcessed transitions a pending request to approved or
// rejected. The status predicate makes concurrent admin actions mutually
// exclusive: only one update affects a row, the other sees RowsAffected 0.
func (r *Repository) MarkWithdrawalProcessed(ctx context.Context, tx *gorm.DB, id string, status models.WithdrawalStatus, adminID string, reason *string, processedAt time.Time) (bool, error) {
	db := tx
	if tx == nil {
		db = r.db
	}

	updates := map[string]interface{}{
		"status":       status,
		"approved_by":  adminID,
		"processed_at": processedAt,
	}
	if reason != nil {
		updates["rejection_reason"] = *reason
	}

	res := db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.WithdrawalPending).
		Updates(updates)

	if res.Error != nil {
		return false, fmt.Errorf("failed to update withdrawal status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
