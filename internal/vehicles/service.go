package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

const (
	minModelYear = 1950
	maxModelYear = 2100
)

type vehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Vehicle, int64, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes fleet operations scoped to a tenant.
type Service interface {
	List(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]VehicleDTO, int64, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*VehicleDTO, error)
	Create(ctx context.Context, companyID uuid.UUID, input CreateVehicleInput) (*VehicleDTO, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type service struct {
	repo vehicleRepository
}

// NewService builds a vehicle service with the provided repository.
func NewService(repo vehicleRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	return &service{repo: repo}, nil
}

// CreateVehicleInput captures the fields accepted at creation.
type CreateVehicleInput struct {
	LocationID *uuid.UUID
	Make       string
	Model      string
	Year       int
	Plate      string
	Status     *string
	DailyRate  decimal.Decimal
	ImageURL   *string
}

// UpdateVehicleInput captures the allowed vehicle fields for mutation.
type UpdateVehicleInput struct {
	LocationID    *uuid.UUID
	ClearLocation bool
	Make          *string
	Model         *string
	Year          *int
	Plate         *string
	Status        *string
	DailyRate     *decimal.Decimal
	ImageURL      *string
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]VehicleDTO, int64, error) {
	rows, total, err := s.repo.ListByCompany(ctx, companyID, filter, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	dtos := make([]VehicleDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(vehicle), nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateVehicleInput) (*VehicleDTO, error) {
	make_ := strings.TrimSpace(input.Make)
	model := strings.TrimSpace(input.Model)
	plate := strings.TrimSpace(input.Plate)
	switch {
	case make_ == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle make is required")
	case model == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle model is required")
	case plate == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle plate is required")
	case input.Year < minModelYear || input.Year > maxModelYear:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle year is out of range")
	case input.DailyRate.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily rate cannot be negative")
	}

	status := enums.VehicleStatusAvailable
	if input.Status != nil {
		parsed, err := enums.ParseVehicleStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		status = parsed
	}

	vehicle := &models.Vehicle{
		ID:         uuid.New(),
		CompanyID:  companyID,
		LocationID: input.LocationID,
		Make:       make_,
		Model:      model,
		Year:       input.Year,
		Plate:      plate,
		Status:     status,
		DailyRate:  input.DailyRate,
		ImageURL:   input.ImageURL,
	}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) Update(ctx context.Context, companyID, id uuid.UUID, input UpdateVehicleInput) (*VehicleDTO, error) {
	vehicle, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.ClearLocation {
		vehicle.LocationID = nil
	} else if input.LocationID != nil {
		vehicle.LocationID = input.LocationID
	}
	if input.Make != nil {
		value := strings.TrimSpace(*input.Make)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle make cannot be empty")
		}
		vehicle.Make = value
	}
	if input.Model != nil {
		value := strings.TrimSpace(*input.Model)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle model cannot be empty")
		}
		vehicle.Model = value
	}
	if input.Year != nil {
		if *input.Year < minModelYear || *input.Year > maxModelYear {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle year is out of range")
		}
		vehicle.Year = *input.Year
	}
	if input.Plate != nil {
		value := strings.TrimSpace(*input.Plate)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle plate cannot be empty")
		}
		vehicle.Plate = value
	}
	if input.Status != nil {
		parsed, err := enums.ParseVehicleStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		vehicle.Status = parsed
	}
	if input.DailyRate != nil {
		if input.DailyRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily rate cannot be negative")
		}
		vehicle.DailyRate = *input.DailyRate
	}
	if input.ImageURL != nil {
		vehicle.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return FromModel(vehicle), nil
}

func (s *service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.loadScoped(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	return nil
}

func (s *service) loadScoped(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return vehicle, nil
}
