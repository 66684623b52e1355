package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	"github.com/fleetdesk/fleetdesk-backend/api/validators"
	bookingsvc "github.com/fleetdesk/fleetdesk-backend/internal/bookings"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// ListBookings handles the paginated booking listing with filters.
func ListBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantViewer(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filter bookingsvc.ListFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseBookingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("vehicleId")); raw != "" {
			vehicleID, err := validators.ParseUUIDParam(raw, "vehicleId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.VehicleID = &vehicleID
		}

		params := pageParams(r)
		bookings, total, err := svc.List(r.Context(), companyID, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pagination.WriteHeaders(w, params, total)
		responses.WriteSuccess(w, bookings)
	}
}

// GetBooking handles a single booking lookup.
func GetBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantViewer(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.GetByID(r.Context(), companyID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

type createBookingRequest struct {
	VehicleID        uuid.UUID  `json:"vehicle_id" validate:"required"`
	CustomerName     string     `json:"customer_name" validate:"required"`
	CustomerEmail    string     `json:"customer_email" validate:"required,email"`
	CustomerPhone    *string    `json:"customer_phone,omitempty"`
	PickupLocationID *uuid.UUID `json:"pickup_location_id,omitempty"`
	ReturnLocationID *uuid.UUID `json:"return_location_id,omitempty"`
	StartDate        string     `json:"start_date" validate:"required"`
	EndDate          string     `json:"end_date" validate:"required"`
	TotalAmount      string     `json:"total_amount" validate:"required"`
}

// CreateBooking handles booking creation; new bookings start pending.
func CreateBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(payload.TotalAmount))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be a decimal number"))
			return
		}

		booking, err := svc.Create(r.Context(), companyID, bookingsvc.CreateBookingInput{
			VehicleID:        payload.VehicleID,
			CustomerName:     payload.CustomerName,
			CustomerEmail:    payload.CustomerEmail,
			CustomerPhone:    payload.CustomerPhone,
			PickupLocationID: payload.PickupLocationID,
			ReturnLocationID: payload.ReturnLocationID,
			StartDate:        payload.StartDate,
			EndDate:          payload.EndDate,
			TotalAmount:      amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

type updateBookingRequest struct {
	CustomerName     *string    `json:"customer_name,omitempty"`
	CustomerEmail    *string    `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone    *string    `json:"customer_phone,omitempty"`
	PickupLocationID *uuid.UUID `json:"pickup_location_id,omitempty"`
	ReturnLocationID *uuid.UUID `json:"return_location_id,omitempty"`
	TotalAmount      *string    `json:"total_amount,omitempty"`
}

// UpdateBooking handles partial booking updates. Status moves go through
// TransitionBooking.
func UpdateBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := bookingsvc.UpdateBookingInput{
			CustomerName:     payload.CustomerName,
			CustomerEmail:    payload.CustomerEmail,
			CustomerPhone:    payload.CustomerPhone,
			PickupLocationID: payload.PickupLocationID,
			ReturnLocationID: payload.ReturnLocationID,
		}
		if payload.TotalAmount != nil {
			amount, err := decimal.NewFromString(strings.TrimSpace(*payload.TotalAmount))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "total amount must be a decimal number"))
				return
			}
			input.TotalAmount = &amount
		}

		booking, err := svc.Update(r.Context(), companyID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

type transitionBookingRequest struct {
	Status string `json:"status" validate:"required"`
}

// TransitionBooking moves a booking through its status machine.
func TransitionBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseBookingStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		booking, err := svc.Transition(r.Context(), companyID, id, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// DeleteBooking removes a booking and its attached services.
func DeleteBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		companyID, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, companyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), companyID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
