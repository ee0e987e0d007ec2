package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) GetWalletByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// CreateWalletIfAbsent inserts the wallet unless one already exists for the
// user. Two concurrent first-time accesses race on the unique user_id index;
// the loser's insert is a no-op and the caller re-reads.
func (r *Repository) CreateWalletIfAbsent(ctx context.Context, wallet *models.Wallet) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(wallet).Error

	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *Repository) CountWallets(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Wallet{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count wallets: %w", err)
	}
	return count, nil
}

// AdjustWalletBalance applies a signed delta to the mirrored wallet balance
// for the user. Kept in step with the user's balance inside the same DB
// transaction.
func (r *Repository) AdjustWalletBalance(ctx context.Context, tx *gorm.DB, userID string, currency models.Currency, delta decimal.Decimal) error {
	db := tx
	if tx == nil {
		db = r.db
	}

	col := balanceColumn(currency)
	res := db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update(col, gorm.Expr(col+" + ?", delta))

	if res.Error != nil {
		return fmt.Errorf("failed to adjust wallet balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wallet for user %s not found", userID)
	}
	return nil
}
