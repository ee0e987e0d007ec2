package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (r *Repository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return &user, nil
}

func balanceColumn(currency models.Currency) string {
	if currency == models.CurrencyRUB {
		return "balance_rub"
	}
	return "balance_btc"
}

// CreditUserBalance adds amount to the user's balance column in a single
// in-database update. Runs inside the given transaction when tx is not nil.
func (r *Repository) CreditUserBalance(ctx context.Context, tx *gorm.DB, userID string, currency models.Currency, amount decimal.Decimal) error {
	db := tx
	if tx == nil {
		db = r.db
	}

	col := balanceColumn(currency)
	res := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update(col, gorm.Expr(col+" + ?", amount))

	if res.Error != nil {
		return fmt.Errorf("failed to credit user balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s not found for balance credit", userID)
	}
	return nil
}

// DebitUserBalance subtracts amount from the user's balance, guarded so the
// balance can never go negative. Returns false when the guard rejects the
// update.
func (r *Repository) DebitUserBalance(ctx context.Context, tx *gorm.DB, userID string, currency models.Currency, amount decimal.Decimal) (bool, error) {
	db := tx
	if tx == nil {
		db = r.db
	}

	col := balanceColumn(currency)
	res := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND "+col+" >= ?", userID, amount).
		Update(col, gorm.Expr(col+" - ?", amount))

	if res.Error != nil {
		return false, fmt.Errorf("failed to debit user balance: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
