package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles booking persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to booking operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows a company's booking listing.
type ListFilter struct {
	Status    *enums.BookingStatus
	VehicleID *uuid.UUID
}

// Create persists a new booking row.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is required")
	}
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID loads a booking by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByCompany returns one page of a company's bookings plus the total count.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{}).Where("company_id = ?", companyID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.VehicleID != nil {
		query = query.Where("vehicle_id = ?", *filter.VehicleID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := query.
		Order("start_date DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Update saves the provided booking.
func (r *Repository) Update(ctx context.Context, booking *models.Booking) error {
	if booking == nil {
		return fmt.Errorf("booking is required")
	}
	return r.db.WithContext(ctx).Save(booking).Error
}

// Delete removes the booking and its service snapshots.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		Delete(&models.BookingService{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Booking{}).Error
}
