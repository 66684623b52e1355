package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// allowedTransitions holds the permitted booking status moves. Returned and
// cancelled are terminal.
var allowedTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending:   {enums.BookingStatusConfirmed, enums.BookingStatusCancelled},
	enums.BookingStatusConfirmed: {enums.BookingStatusPickedUp, enums.BookingStatusCancelled},
	enums.BookingStatusPickedUp:  {enums.BookingStatusReturned},
}

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Booking, int64, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes booking operations scoped to a tenant.
type Service interface {
	List(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]BookingDTO, int64, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*BookingDTO, error)
	Create(ctx context.Context, companyID uuid.UUID, input CreateBookingInput) (*BookingDTO, error)
	Update(ctx context.Context, companyID, id uuid.UUID, input UpdateBookingInput) (*BookingDTO, error)
	Transition(ctx context.Context, companyID, id uuid.UUID, target enums.BookingStatus) (*BookingDTO, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type service struct {
	repo bookingRepository
}

// NewService builds a booking service with the provided repository.
func NewService(repo bookingRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	return &service{repo: repo}, nil
}

// CreateBookingInput captures the fields accepted at creation.
type CreateBookingInput struct {
	VehicleID        uuid.UUID
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    *string
	PickupLocationID *uuid.UUID
	ReturnLocationID *uuid.UUID
	StartDate        string
	EndDate          string
	TotalAmount      decimal.Decimal
}

// UpdateBookingInput captures the allowed booking fields for mutation.
// Status moves go through Transition, not here.
type UpdateBookingInput struct {
	CustomerName     *string
	CustomerEmail    *string
	CustomerPhone    *string
	PickupLocationID *uuid.UUID
	ReturnLocationID *uuid.UUID
	TotalAmount      *decimal.Decimal
}

func (s *service) List(ctx context.Context, companyID uuid.UUID, filter ListFilter, params pagination.Params) ([]BookingDTO, int64, error) {
	rows, total, err := s.repo.ListByCompany(ctx, companyID, filter, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	dtos := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(booking), nil
}

func (s *service) Create(ctx context.Context, companyID uuid.UUID, input CreateBookingInput) (*BookingDTO, error) {
	name := strings.TrimSpace(input.CustomerName)
	email := strings.TrimSpace(input.CustomerEmail)
	switch {
	case input.VehicleID == uuid.Nil:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	case name == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	case email == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	case input.TotalAmount.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}

	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:               uuid.New(),
		CompanyID:        companyID,
		VehicleID:        input.VehicleID,
		CustomerName:     name,
		CustomerEmail:    email,
		CustomerPhone:    input.CustomerPhone,
		PickupLocationID: input.PickupLocationID,
		ReturnLocationID: input.ReturnLocationID,
		StartDate:        start,
		EndDate:          end,
		Status:           enums.BookingStatusPending,
		TotalAmount:      input.TotalAmount,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	return FromModel(booking), nil
}

func (s *service) Update(ctx context.Context, companyID, id uuid.UUID, input UpdateBookingInput) (*BookingDTO, error) {
	booking, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		booking.CustomerName = name
	}
	if input.CustomerEmail != nil {
		email := strings.TrimSpace(*input.CustomerEmail)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
		}
		booking.CustomerEmail = email
	}
	if input.CustomerPhone != nil {
		booking.CustomerPhone = input.CustomerPhone
	}
	if input.PickupLocationID != nil {
		booking.PickupLocationID = input.PickupLocationID
	}
	if input.ReturnLocationID != nil {
		booking.ReturnLocationID = input.ReturnLocationID
	}
	if input.TotalAmount != nil {
		if input.TotalAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "total amount cannot be negative")
		}
		booking.TotalAmount = *input.TotalAmount
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking")
	}
	return FromModel(booking), nil
}

// Transition moves the booking along the status machine. Disallowed moves are
// state conflicts, not validation errors.
func (s *service) Transition(ctx context.Context, companyID, id uuid.UUID, target enums.BookingStatus) (*BookingDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}

	booking, err := s.loadScoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == target {
		return FromModel(booking), nil
	}
	if !transitionAllowed(booking.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("booking cannot move from %s to %s", booking.Status, target))
	}

	booking.Status = target
	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking")
	}
	return FromModel(booking), nil
}

func (s *service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.loadScoped(ctx, companyID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete booking")
	}
	return nil
}

func (s *service) loadScoped(ctx context.Context, companyID, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return booking, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startAt, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start date is invalid")
	}
	endAt, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date is invalid")
	}
	if !endAt.After(startAt) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	return startAt, endAt, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func transitionAllowed(from, to enums.BookingStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
