package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	"github.com/fleetdesk/fleetdesk-backend/api/validators"
	catalogsvc "github.com/fleetdesk/fleetdesk-backend/internal/catalog"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// ListGroupedModels serves the catalog grouped by category, overlaid with a
// tenant's fleet counts and override rates when companyId is present.
func ListGroupedModels(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var companyID *uuid.UUID
		if raw := strings.TrimSpace(r.URL.Query().Get("companyId")); raw != "" {
			id, err := validators.ParseUUIDParam(raw, "companyId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			companyID = &id
		}

		grouped, err := svc.ListGroupedByCategory(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, grouped)
	}
}

type bulkRateRequest struct {
	CompanyID  uuid.UUID  `json:"company_id" validate:"required"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Make       string     `json:"make,omitempty"`
	Model      string     `json:"model,omitempty"`
	Year       *int       `json:"year,omitempty"`
	DailyRate  string     `json:"daily_rate" validate:"required"`
}

// BulkUpdateModelRates upserts a company's override rate across the matching
// catalog models in one statement.
func BulkUpdateModelRates(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload bulkRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, payload.CompanyID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(payload.DailyRate))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "daily rate must be a decimal number"))
			return
		}

		affected, err := svc.BulkUpdateDailyRate(r.Context(), payload.CompanyID, catalogsvc.ModelFilter{
			CategoryID: payload.CategoryID,
			Make:       payload.Make,
			Model:      payload.Model,
			Year:       payload.Year,
		}, rate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": affected})
	}
}

// ListCategories serves the ordered category list.
func ListCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type categoryRequest struct {
	Name      string `json:"name" validate:"required"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// CreateCategory handles catalog category creation.
func CreateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), payload.Name, payload.SortOrder)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

type updateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// UpdateCategory handles partial category updates.
func UpdateCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), id, payload.Name, payload.SortOrder)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// DeleteCategory removes an empty catalog category.
func DeleteCategory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "categoryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createModelRequest struct {
	CategoryID    uuid.UUID `json:"category_id" validate:"required"`
	Make          string    `json:"make" validate:"required"`
	Model         string    `json:"model" validate:"required"`
	Year          int       `json:"year" validate:"required"`
	Seats         int       `json:"seats,omitempty"`
	Transmission  *string   `json:"transmission,omitempty"`
	BaseDailyRate string    `json:"base_daily_rate" validate:"required"`
	ImageURL      *string   `json:"image_url,omitempty"`
}

// CreateCatalogModel handles catalog model creation.
func CreateCatalogModel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := decimal.NewFromString(strings.TrimSpace(payload.BaseDailyRate))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "base daily rate must be a decimal number"))
			return
		}

		model, err := svc.CreateModel(r.Context(), catalogsvc.CreateModelInput{
			CategoryID:    payload.CategoryID,
			Make:          payload.Make,
			Model:         payload.Model,
			Year:          payload.Year,
			Seats:         payload.Seats,
			Transmission:  payload.Transmission,
			BaseDailyRate: rate,
			ImageURL:      payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, model)
	}
}

type updateModelRequest struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Make          *string    `json:"make,omitempty"`
	Model         *string    `json:"model,omitempty"`
	Year          *int       `json:"year,omitempty"`
	Seats         *int       `json:"seats,omitempty"`
	Transmission  *string    `json:"transmission,omitempty"`
	BaseDailyRate *string    `json:"base_daily_rate,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
}

// UpdateCatalogModel handles partial model updates.
func UpdateCatalogModel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "modelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateModelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.UpdateModelInput{
			CategoryID:   payload.CategoryID,
			Make:         payload.Make,
			Model:        payload.Model,
			Year:         payload.Year,
			Seats:        payload.Seats,
			Transmission: payload.Transmission,
			ImageURL:     payload.ImageURL,
		}
		if payload.BaseDailyRate != nil {
			rate, err := decimal.NewFromString(strings.TrimSpace(*payload.BaseDailyRate))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "base daily rate must be a decimal number"))
				return
			}
			input.BaseDailyRate = &rate
		}

		model, err := svc.UpdateModel(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, model)
	}
}

// DeleteCatalogModel removes a catalog model and its company overrides.
func DeleteCatalogModel(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := pathUUID(r, "modelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteModel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
