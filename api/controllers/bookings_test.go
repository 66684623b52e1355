package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/api/middleware"
	bookingsvc "github.com/fleetdesk/fleetdesk-backend/internal/bookings"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

func TestTransitionBooking(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	companyID := uuid.New()
	bookingID := uuid.New()

	makeRequest := func(body string, stub *stubBookingService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/companies/"+companyID.String()+"/bookings/"+bookingID.String()+"/transition", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		ctx := middleware.WithKind(context.Background(), enums.PrincipalKindAgent)
		ctx = middleware.WithRole(ctx, string(enums.AgentRoleAdmin))
		ctx = middleware.WithCompanyID(ctx, companyID.String())
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("companyID", companyID.String())
		routeCtx.URLParams.Add("bookingID", bookingID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
		req = req.WithContext(ctx)

		rec := httptest.NewRecorder()
		TransitionBooking(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("unknown status", func(t *testing.T) {
		stub := &stubBookingService{}
		rec := makeRequest(`{"status":"teleported"}`, stub)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
		}
		if stub.transitionCalled {
			t.Fatalf("service must not be invoked for an unparseable status")
		}
	})

	t.Run("missing status", func(t *testing.T) {
		rec := makeRequest(`{}`, &stubBookingService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing status, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubBookingService{}
		rec := makeRequest(`{"status":"confirmed"}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.transitionTarget != enums.BookingStatusConfirmed {
			t.Fatalf("expected transition target confirmed, got %q", stub.transitionTarget)
		}
	})
}

type stubBookingService struct {
	transitionCalled bool
	transitionTarget enums.BookingStatus
}

func (s *stubBookingService) List(ctx context.Context, companyID uuid.UUID, filter bookingsvc.ListFilter, params pagination.Params) ([]bookingsvc.BookingDTO, int64, error) {
	panic("unimplemented")
}

func (s *stubBookingService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*bookingsvc.BookingDTO, error) {
	panic("unimplemented")
}

func (s *stubBookingService) Create(ctx context.Context, companyID uuid.UUID, input bookingsvc.CreateBookingInput) (*bookingsvc.BookingDTO, error) {
	panic("unimplemented")
}

func (s *stubBookingService) Update(ctx context.Context, companyID, id uuid.UUID, input bookingsvc.UpdateBookingInput) (*bookingsvc.BookingDTO, error) {
	panic("unimplemented")
}

func (s *stubBookingService) Transition(ctx context.Context, companyID, id uuid.UUID, target enums.BookingStatus) (*bookingsvc.BookingDTO, error) {
	s.transitionCalled = true
	s.transitionTarget = target
	return &bookingsvc.BookingDTO{ID: id, CompanyID: companyID, Status: target}, nil
}

func (s *stubBookingService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	panic("unimplemented")
}
