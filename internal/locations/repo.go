package locations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles location persistence. Locations live in two mirrored
// tables; every mutation touches both inside one transaction so the shared-ID
// invariant holds.
type Repository struct {
	client *db.Client
}

// NewRepository binds the DB client to location operations.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// FindByID loads a location by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	if err := r.client.DB().WithContext(ctx).Where("id = ?", id).First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// ListByCompany returns one page of a company's locations plus the total count.
func (r *Repository) ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.Location, int64, error) {
	base := r.client.DB().WithContext(ctx).Model(&models.Location{}).Where("company_id = ?", companyID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var locations []models.Location
	if err := r.client.DB().WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&locations).Error; err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

// CreateDual inserts the location into both tables with one shared UUID.
func (r *Repository) CreateDual(ctx context.Context, dto CreateLocationDTO) (*models.Location, error) {
	location := &models.Location{
		ID:        uuid.New(),
		CompanyID: dto.CompanyID,
		Name:      dto.Name,
		Address:   dto.Address,
		City:      dto.City,
		Country:   dto.Country,
		Phone:     dto.Phone,
		Active:    true,
	}

	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(location).Error; err != nil {
			return err
		}
		return tx.Create(mirrorOf(location)).Error
	})
	if err != nil {
		return nil, err
	}
	return location, nil
}

// UpdateDual saves the location into both tables in one transaction.
func (r *Repository) UpdateDual(ctx context.Context, location *models.Location) error {
	if location == nil {
		return fmt.Errorf("location is required")
	}
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(location).Error; err != nil {
			return err
		}
		return tx.Save(mirrorOf(location)).Error
	})
}

// DeleteDual removes both rows and detaches everything referencing the
// location: vehicles parked there and bookings that pick up or return there.
func (r *Repository) DeleteDual(ctx context.Context, id uuid.UUID) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Booking{}).
			Where("pickup_location_id = ?", id).
			Update("pickup_location_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Booking{}).
			Where("return_location_id = ?", id).
			Update("return_location_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.CompanyLocation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Location{}).Error
	})
}

func mirrorOf(location *models.Location) *models.CompanyLocation {
	return &models.CompanyLocation{
		ID:        location.ID,
		CompanyID: location.CompanyID,
		Name:      location.Name,
		Address:   location.Address,
		City:      location.City,
		Country:   location.Country,
		Phone:     location.Phone,
		Active:    location.Active,
	}
}
