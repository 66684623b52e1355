package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	"github.com/fleetdesk/fleetdesk-backend/api/validators"
	vehiclesvc "github.com/fleetdesk/fleetdesk-backend/internal/vehicles"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
	"github.com/fleetdesk/fleetdesk-backend/pkg/types"
)

// ListVehicles handles the paginated fleet listing with status/location filters.
func ListVehicles(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
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

		var filter vehiclesvc.ListFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseVehicleStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("locationId")); raw != "" {
			locationID, err := validators.ParseUUIDParam(raw, "locationId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.LocationID = &locationID
		}

		params := pageParams(r)
		vehicles, total, err := svc.List(r.Context(), companyID, filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pagination.WriteHeaders(w, params, total)
		responses.WriteSuccess(w, vehicles)
	}
}

// GetVehicle handles a single vehicle lookup.
func GetVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
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
		id, err := pathUUID(r, "vehicleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vehicle, err := svc.GetByID(r.Context(), companyID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

type createVehicleRequest struct {
	LocationID *uuid.UUID `json:"location_id,omitempty"`
	Make       string     `json:"make" validate:"required"`
	Model      string     `json:"model" validate:"required"`
	Year       int        `json:"year" validate:"required"`
	Plate      string     `json:"plate" validate:"required"`
	Status     *string    `json:"status,omitempty"`
	DailyRate  string     `json:"daily_rate" validate:"required"`
	ImageURL   *string    `json:"image_url,omitempty"`
}

// CreateVehicle handles fleet vehicle creation.
func CreateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
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

		var payload createVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(payload.DailyRate))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "daily rate must be a decimal number"))
			return
		}

		vehicle, err := svc.Create(r.Context(), companyID, vehiclesvc.CreateVehicleInput{
			LocationID: payload.LocationID,
			Make:       payload.Make,
			Model:      payload.Model,
			Year:       payload.Year,
			Plate:      payload.Plate,
			Status:     payload.Status,
			DailyRate:  rate,
			ImageURL:   payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

type updateVehicleRequest struct {
	// location_id distinguishes absent, null (unassign) and value.
	LocationID types.NullableUUID `json:"location_id,omitempty"`
	Make       *string            `json:"make,omitempty"`
	Model      *string            `json:"model,omitempty"`
	Year       *int               `json:"year,omitempty"`
	Plate      *string            `json:"plate,omitempty"`
	Status     *string            `json:"status,omitempty"`
	DailyRate  *string            `json:"daily_rate,omitempty"`
	ImageURL   *string            `json:"image_url,omitempty"`
}

// UpdateVehicle handles partial vehicle updates.
func UpdateVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
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
		id, err := pathUUID(r, "vehicleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateVehicleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := vehiclesvc.UpdateVehicleInput{
			Make:     payload.Make,
			Model:    payload.Model,
			Year:     payload.Year,
			Plate:    payload.Plate,
			Status:   payload.Status,
			ImageURL: payload.ImageURL,
		}
		if payload.LocationID.Valid {
			if payload.LocationID.Value == nil {
				input.ClearLocation = true
			} else {
				input.LocationID = payload.LocationID.Value
			}
		}
		if payload.DailyRate != nil {
			rate, err := decimal.NewFromString(strings.TrimSpace(*payload.DailyRate))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "daily rate must be a decimal number"))
				return
			}
			input.DailyRate = &rate
		}

		vehicle, err := svc.Update(r.Context(), companyID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// DeleteVehicle removes a vehicle from the fleet.
func DeleteVehicle(svc vehiclesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vehicle service unavailable"))
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
		id, err := pathUUID(r, "vehicleID")
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
