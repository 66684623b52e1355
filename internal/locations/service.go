package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

type locationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.Location, int64, error)
	CreateDual(ctx context.Context, dto CreateLocationDTO) (*models.Location, error)
	UpdateDual(ctx context.Context, location *models.Location) error
	DeleteDual(ctx context.Context, id uuid.UUID) error
}

// Service exposes location operations scoped to a tenant.
type Service interface {
	List(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]LocationDTO, int64, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*LocationDTO, error)
	Create(ctx context.Context, companyID uuid.UUID, input CreateLocationInput) (*LocationDTO, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input UpdateLocationInput) (*LocationDTO, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type service struct {
	repo locationRepository
}

// NewService builds a location service with the provided repository.
func NewService(repo locationRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

// CreateLocationInput captures the fields accepted at creation.
type CreateLocationInput struct {
	Name    string
	Address *string
	City    *string
	Country *string
	Phone   *string
}

// UpdateLocationInput captures the allowed location fields for mutation.
type UpdateLocationInput struct {
	Name    *string
	Address *string
	City    *string
	Country *string
	Phone   *string
	Active  *bool
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]LocationDTO, int64, error) {
	rows, total, err := s.repo.ListByCompany(ctx, companyID, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	dtos := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id uuid.UUID) (*LocationDTO, error) {
	location, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(location), nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateLocationInput) (*LocationDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name is required")
	}

	location, err := s.repo.CreateDual(ctx, CreateLocationDTO{
		CompanyID: companyID,
		Name:      name,
		Address:   input.Address,
		City:      input.City,
		Country:   input.Country,
		Phone:     input.Phone,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create location")
	}
	return FromModel(location), nil
}

func (s *service) Update(ctx context.Context, companyID, id uuid.UUID, input UpdateLocationInput) (*LocationDTO, error) {
	location, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name cannot be empty")
		}
		location.Name = name
	}
	if input.Address != nil {
		location.Address = input.Address
	}
	if input.City != nil {
		location.City = input.City
	}
	if input.Country != nil {
		location.Country = input.Country
	}
	if input.Phone != nil {
		location.Phone = input.Phone
	}
	if input.Active != nil {
		location.Active = *input.Active
	}

	if err := s.repo.UpdateDual(ctx, location); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return FromModel(location), nil
}

func (s *service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.loadScoped(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteDual(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
	}
	return nil
}

func (s *service) loadScoped(ctx context.Context, companyID, id uuid.UUID) (*models.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	if location.CompanyID != companyID {
		// cross-tenant probes look identical to missing rows
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return location, nil
}
