package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

type stubBookingRepo struct {
	byID map[uuid.UUID]*models.Booking
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{byID: map[uuid.UUID]*models.Booking{}}
}

func (s *stubBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	cpy := *booking
	s.byID[booking.ID] = &cpy
	return nil
}

func (s *stubBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	if booking, ok := s.byID[id]; ok {
		cpy := *booking
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBookingRepo) ListByCompany(_ context.Context, companyID uuid.UUID, _ ListFilter, _ pagination.Params) ([]models.Booking, int64, error) {
	var rows []models.Booking
	for _, booking := range s.byID {
		if booking.CompanyID == companyID {
			rows = append(rows, *booking)
		}
	}
	return rows, int64(len(rows)), nil
}

func (s *stubBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	cpy := *booking
	s.byID[booking.ID] = &cpy
	return nil
}

func (s *stubBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func seedBooking(repo *stubBookingRepo, companyID uuid.UUID, status enums.BookingStatus) *models.Booking {
	booking := &models.Booking{
		ID:            uuid.New(),
		CompanyID:     companyID,
		VehicleID:     uuid.New(),
		CustomerName:  "Jamie Fox",
		CustomerEmail: "jamie@example.com",
		StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Status:        status,
		TotalAmount:   decimal.NewFromInt(200),
	}
	repo.byID[booking.ID] = booking
	return booking
}

func TestCreateStartsPending(t *testing.T) {
	svc, _ := NewService(newStubBookingRepo())

	dto, err := svc.Create(context.Background(), uuid.New(), CreateBookingInput{
		VehicleID:     uuid.New(),
		CustomerName:  "Jamie Fox",
		CustomerEmail: "jamie@example.com",
		StartDate:     "2026-09-01",
		EndDate:       "2026-09-05",
		TotalAmount:   decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.BookingStatusPending {
		t.Fatalf("status: %s", dto.Status)
	}
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	svc, _ := NewService(newStubBookingRepo())

	_, err := svc.Create(context.Background(), uuid.New(), CreateBookingInput{
		VehicleID:     uuid.New(),
		CustomerName:  "Jamie Fox",
		CustomerEmail: "jamie@example.com",
		StartDate:     "2026-09-05",
		EndDate:       "2026-09-01",
		TotalAmount:   decimal.NewFromInt(200),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransitionHappyPath(t *testing.T) {
	repo := newStubBookingRepo()
	svc, _ := NewService(repo)

	companyID := uuid.New()
	booking := seedBooking(repo, companyID, enums.BookingStatusPending)

	for _, target := range []enums.BookingStatus{
		enums.BookingStatusConfirmed,
		enums.BookingStatusPickedUp,
		enums.BookingStatusReturned,
	} {
		dto, err := svc.Transition(context.Background(), companyID, booking.ID, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if dto.Status != target {
			t.Fatalf("status after transition: %s", dto.Status)
		}
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	repo := newStubBookingRepo()
	svc, _ := NewService(repo)

	companyID := uuid.New()
	cases := []struct {
		from enums.BookingStatus
		to   enums.BookingStatus
	}{
		{enums.BookingStatusPending, enums.BookingStatusPickedUp},
		{enums.BookingStatusPending, enums.BookingStatusReturned},
		{enums.BookingStatusReturned, enums.BookingStatusConfirmed},
		{enums.BookingStatusCancelled, enums.BookingStatusConfirmed},
		{enums.BookingStatusPickedUp, enums.BookingStatusCancelled},
	}
	for _, tc := range cases {
		booking := seedBooking(repo, companyID, tc.from)
		_, err := svc.Transition(context.Background(), companyID, booking.ID, tc.to)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("%s -> %s: expected state conflict, got %v", tc.from, tc.to, err)
		}
		if repo.byID[booking.ID].Status != tc.from {
			t.Fatalf("status should not change on rejected transition")
		}
	}
}

func TestTransitionSameStatusIsIdempotent(t *testing.T) {
	repo := newStubBookingRepo()
	svc, _ := NewService(repo)

	companyID := uuid.New()
	booking := seedBooking(repo, companyID, enums.BookingStatusConfirmed)

	dto, err := svc.Transition(context.Background(), companyID, booking.ID, enums.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("same-status transition: %v", err)
	}
	if dto.Status != enums.BookingStatusConfirmed {
		t.Fatalf("status: %s", dto.Status)
	}
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	repo := newStubBookingRepo()
	svc, _ := NewService(repo)

	companyID := uuid.New()
	booking := seedBooking(repo, companyID, enums.BookingStatusPending)

	amount := decimal.NewFromInt(250)
	dto, err := svc.Update(context.Background(), companyID, booking.ID, UpdateBookingInput{
		TotalAmount: &amount,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !dto.TotalAmount.Equal(amount) {
		t.Fatalf("total amount: %v", dto.TotalAmount)
	}
	if dto.CustomerName != "Jamie Fox" || dto.CustomerEmail != "jamie@example.com" {
		t.Fatalf("omitted fields changed: %+v", dto)
	}
}

func TestCrossTenantBookingLooksLikeNotFound(t *testing.T) {
	repo := newStubBookingRepo()
	svc, _ := NewService(repo)

	booking := seedBooking(repo, uuid.New(), enums.BookingStatusPending)

	_, err := svc.GetByID(context.Background(), uuid.New(), booking.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
