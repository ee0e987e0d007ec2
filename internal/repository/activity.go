package repository

import (
	"context"
	"fmt"

	"github.com/astralpay/wallet-api/internal/models"
)

func (r *Repository) CreateActivityLog(ctx context.Context, entry *models.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}
