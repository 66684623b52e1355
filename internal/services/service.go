package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

type serviceRepository interface {
	ListServices(ctx context.Context, params pagination.Params) ([]models.AdditionalService, int64, error)
	CreateService(ctx context.Context, service *models.AdditionalService) error
	FindServiceByID(ctx context.Context, id uuid.UUID) (*models.AdditionalService, error)
	UpdateService(ctx context.Context, service *models.AdditionalService) error
	DeleteService(ctx context.Context, id uuid.UUID) error

	ListCompanyServices(ctx context.Context, companyID uuid.UUID) ([]models.CompanyService, error)
	CreateCompanyService(ctx context.Context, row *models.CompanyService) error
	FindCompanyServiceByID(ctx context.Context, id uuid.UUID) (*models.CompanyService, error)
	UpdateCompanyService(ctx context.Context, row *models.CompanyService) error
	DeleteCompanyService(ctx context.Context, id uuid.UUID) error

	ListBookingServices(ctx context.Context, bookingID uuid.UUID) ([]models.BookingService, error)
	CreateBookingService(ctx context.Context, row *models.BookingService) error
	FindBookingServiceByID(ctx context.Context, id uuid.UUID) (*models.BookingService, error)
	UpdateBookingService(ctx context.Context, row *models.BookingService) error
	DeleteBookingService(ctx context.Context, id uuid.UUID) error
}

// Service exposes the add-on catalog, company opt-ins and booking snapshots.
type Service interface {
	List(ctx context.Context, params pagination.Params) ([]ServiceDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
	Create(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListOptIns(ctx context.Context, companyID uuid.UUID) ([]CompanyServiceDTO, error)
	OptIn(ctx context.Context, companyID, serviceID uuid.UUID) (*CompanyServiceDTO, error)
	SetOptInEnabled(ctx context.Context, companyID, optInID uuid.UUID, enabled bool) (*CompanyServiceDTO, error)
	OptOut(ctx context.Context, companyID, optInID uuid.UUID) error

	ListBookingServices(ctx context.Context, bookingID uuid.UUID) ([]BookingServiceDTO, error)
	AttachToBooking(ctx context.Context, bookingID, serviceID uuid.UUID, quantity int) (*BookingServiceDTO, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*BookingServiceDTO, error)
	DetachFromBooking(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo serviceRepository
}

// NewService builds an add-on service with the provided repository.
func NewService(repo serviceRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("service repository required")
	}
	return &service{repo: repo}, nil
}

// CreateServiceInput captures the fields accepted at add-on creation.
type CreateServiceInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Mandatory   bool
	MaxQuantity int
}

// UpdateServiceInput captures the allowed add-on fields for mutation.
type UpdateServiceInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Mandatory   *bool
	MaxQuantity *int
	Active      *bool
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]ServiceDTO, int64, error) {
	rows, total, err := s.repo.ListServices(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	dtos := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ServiceFromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	row, err := s.repo.FindServiceByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "service")
	}
	return ServiceFromModel(row), nil
}

func (s *service) Create(ctx context.Context, input CreateServiceInput) (*ServiceDTO, error) {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name is required")
	case input.Price.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	case input.MaxQuantity < 1:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be at least 1")
	}

	row := &models.AdditionalService{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		Mandatory:   input.Mandatory,
		MaxQuantity: input.MaxQuantity,
		Active:      true,
	}
	if err := s.repo.CreateService(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service")
	}
	return ServiceFromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateServiceInput) (*ServiceDTO, error) {
	row, err := s.repo.FindServiceByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "service")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "service name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		row.Price = *input.Price
	}
	if input.Mandatory != nil {
		row.Mandatory = *input.Mandatory
	}
	if input.MaxQuantity != nil {
		if *input.MaxQuantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must be at least 1")
		}
		row.MaxQuantity = *input.MaxQuantity
	}
	if input.Active != nil {
		row.Active = *input.Active
	}

	if err := s.repo.UpdateService(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service")
	}
	return ServiceFromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindServiceByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "service")
	}
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete service")
	}
	return nil
}

func (s *service) ListOptIns(ctx context.Context, companyID uuid.UUID) ([]CompanyServiceDTO, error) {
	rows, err := s.repo.ListCompanyServices(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list company services")
	}
	dtos := make([]CompanyServiceDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *CompanyServiceFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) OptIn(ctx context.Context, companyID, serviceID uuid.UUID) (*CompanyServiceDTO, error) {
	if _, err := s.repo.FindServiceByID(ctx, serviceID); err != nil {
		return nil, notFoundOrDependency(err, "service")
	}

	row := &models.CompanyService{
		ID:        uuid.New(),
		CompanyID: companyID,
		ServiceID: serviceID,
		Enabled:   true,
	}
	if err := s.repo.CreateCompanyService(ctx, row); err != nil {
		if pkgerrors.IsUniqueViolation(err, "company_services_company_service_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "company already opted into this service")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company service")
	}
	return CompanyServiceFromModel(row), nil
}

func (s *service) SetOptInEnabled(ctx context.Context, companyID, optInID uuid.UUID, enabled bool) (*CompanyServiceDTO, error) {
	row, err := s.loadScopedOptIn(ctx, companyID, optInID)
	if err != nil {
		return nil, err
	}

	row.Enabled = enabled
	if err := s.repo.UpdateCompanyService(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company service")
	}
	return CompanyServiceFromModel(row), nil
}

func (s *service) OptOut(ctx context.Context, companyID, optInID uuid.UUID) error {
	if _, err := s.loadScopedOptIn(ctx, companyID, optInID); err != nil {
		return err
	}
	if err := s.repo.DeleteCompanyService(ctx, optInID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete company service")
	}
	return nil
}

func (s *service) ListBookingServices(ctx context.Context, bookingID uuid.UUID) ([]BookingServiceDTO, error) {
	rows, err := s.repo.ListBookingServices(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list booking services")
	}
	dtos := make([]BookingServiceDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *BookingServiceFromModel(&rows[i]))
	}
	return dtos, nil
}

// AttachToBooking snapshots the add-on's current price onto the booking.
// Subtotal is stored alongside and must always equal price * quantity.
func (s *service) AttachToBooking(ctx context.Context, bookingID, serviceID uuid.UUID, quantity int) (*BookingServiceDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	addon, err := s.repo.FindServiceByID(ctx, serviceID)
	if err != nil {
		return nil, notFoundOrDependency(err, "service")
	}
	if quantity > addon.MaxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the service maximum")
	}

	row := &models.BookingService{
		ID:             uuid.New(),
		BookingID:      bookingID,
		ServiceID:      serviceID,
		PriceAtBooking: addon.Price,
		Quantity:       quantity,
		Subtotal:       addon.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	if err := s.repo.CreateBookingService(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking service")
	}
	return BookingServiceFromModel(row), nil
}

// UpdateQuantity recomputes the subtotal from the frozen price. The quantity
// cap is checked against the current catalog row before any state changes.
func (s *service) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*BookingServiceDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	row, err := s.repo.FindBookingServiceByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "booking service")
	}

	addon, err := s.repo.FindServiceByID(ctx, row.ServiceID)
	if err != nil {
		return nil, notFoundOrDependency(err, "service")
	}
	if quantity > addon.MaxQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the service maximum")
	}

	row.Quantity = quantity
	row.Subtotal = row.PriceAtBooking.Mul(decimal.NewFromInt(int64(quantity)))
	if err := s.repo.UpdateBookingService(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking service")
	}
	return BookingServiceFromModel(row), nil
}

func (s *service) DetachFromBooking(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindBookingServiceByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "booking service")
	}
	if err := s.repo.DeleteBookingService(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete booking service")
	}
	return nil
}

func (s *service) loadScopedOptIn(ctx context.Context, companyID, optInID uuid.UUID) (*models.CompanyService, error) {
	row, err := s.repo.FindCompanyServiceByID(ctx, optInID)
	if err != nil {
		return nil, notFoundOrDependency(err, "company service")
	}
	if row.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company service not found")
	}
	return row, nil
}

func notFoundOrDependency(err error, noun string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, noun+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+noun)
}
