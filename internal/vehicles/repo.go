package vehicles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles vehicle persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to vehicle operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows a company's vehicle listing.
type ListFilter struct {
	Status     *enums.VehicleStatus
	LocationID *uuid.UUID
}

// Create persists a new vehicle row.
func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle == nil {
		return fmt.Errorf("vehicle is required")
	}
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// FindByID loads a vehicle by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListByCompany returns one page of a company's fleet plus the total count.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Vehicle{}).Where("company_id = ?", companyID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vehicles []models.Vehicle
	if err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&vehicles).Error; err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// Update saves the provided vehicle.
func (r *Repository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle == nil {
		return fmt.Errorf("vehicle is required")
	}
	return r.db.WithContext(ctx).Save(vehicle).Error
}

// Delete removes the vehicle row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Vehicle{}).Error
}
