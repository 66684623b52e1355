package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
)

// Repository handles transfer record persistence. Rows are append-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to transfer operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateTransfer appends a transfer record.
func (r *Repository) CreateTransfer(ctx context.Context, transfer *models.StripeTransfer) error {
	if transfer == nil {
		return fmt.Errorf("transfer is required")
	}
	return r.db.WithContext(ctx).Create(transfer).Error
}

// ListTransfersByBooking returns a booking's transfer records newest first.
func (r *Repository) ListTransfersByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.StripeTransfer, error) {
	var transfers []models.StripeTransfer
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
