package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles add-on, opt-in and booking snapshot persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to add-on operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListServices returns one page of the add-on catalog plus the total count.
func (r *Repository) ListServices(ctx context.Context, params pagination.Params) ([]models.AdditionalService, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AdditionalService{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var services []models.AdditionalService
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&services).Error; err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

// CreateService persists a new add-on row.
func (r *Repository) CreateService(ctx context.Context, service *models.AdditionalService) error {
	if service == nil {
		return fmt.Errorf("service is required")
	}
	return r.db.WithContext(ctx).Create(service).Error
}

// FindServiceByID loads an add-on by its UUID.
func (r *Repository) FindServiceByID(ctx context.Context, id uuid.UUID) (*models.AdditionalService, error) {
	var service models.AdditionalService
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// UpdateService saves the provided add-on.
func (r *Repository) UpdateService(ctx context.Context, service *models.AdditionalService) error {
	if service == nil {
		return fmt.Errorf("service is required")
	}
	return r.db.WithContext(ctx).Save(service).Error
}

// DeleteService removes the add-on and any company opt-ins for it.
func (r *Repository) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", id).
		Delete(&models.CompanyService{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AdditionalService{}).Error
}

// ListCompanyServices returns a company's opt-in rows.
func (r *Repository) ListCompanyServices(ctx context.Context, companyID uuid.UUID) ([]models.CompanyService, error) {
	var rows []models.CompanyService
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateCompanyService persists a new opt-in row.
func (r *Repository) CreateCompanyService(ctx context.Context, row *models.CompanyService) error {
	if row == nil {
		return fmt.Errorf("company service is required")
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// FindCompanyServiceByID loads an opt-in row by its UUID.
func (r *Repository) FindCompanyServiceByID(ctx context.Context, id uuid.UUID) (*models.CompanyService, error) {
	var row models.CompanyService
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateCompanyService saves the provided opt-in row.
func (r *Repository) UpdateCompanyService(ctx context.Context, row *models.CompanyService) error {
	if row == nil {
		return fmt.Errorf("company service is required")
	}
	return r.db.WithContext(ctx).Save(row).Error
}

// DeleteCompanyService removes the opt-in row.
func (r *Repository) DeleteCompanyService(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CompanyService{}).Error
}

// ListBookingServices returns the snapshots attached to one booking.
func (r *Repository) ListBookingServices(ctx context.Context, bookingID uuid.UUID) ([]models.BookingService, error) {
	var rows []models.BookingService
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateBookingService persists a new snapshot row.
func (r *Repository) CreateBookingService(ctx context.Context, row *models.BookingService) error {
	if row == nil {
		return fmt.Errorf("booking service is required")
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// FindBookingServiceByID loads a snapshot row by its UUID.
func (r *Repository) FindBookingServiceByID(ctx context.Context, id uuid.UUID) (*models.BookingService, error) {
	var row models.BookingService
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateBookingService saves the provided snapshot row.
func (r *Repository) UpdateBookingService(ctx context.Context, row *models.BookingService) error {
	if row == nil {
		return fmt.Errorf("booking service is required")
	}
	return r.db.WithContext(ctx).Save(row).Error
}

// DeleteBookingService removes the snapshot row.
func (r *Repository) DeleteBookingService(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BookingService{}).Error
}
