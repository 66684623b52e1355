package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	"github.com/fleetdesk/fleetdesk-backend/api/validators"
	companysvc "github.com/fleetdesk/fleetdesk-backend/internal/companies"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// ListCompanies handles the paginated tenant listing with filters.
func ListCompanies(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		filter := companysvc.ListFilter{Name: strings.TrimSpace(r.URL.Query().Get("name"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("active")); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "active must be a boolean"))
				return
			}
			filter.Active = &active
		}

		params := pageParams(r)
		companies, total, err := svc.List(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pagination.WriteHeaders(w, params, total)
		responses.WriteSuccess(w, companies)
	}
}

// GetCompany handles a single tenant lookup.
func GetCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantViewer(r, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

type createCompanyRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Domain     *string `json:"domain,omitempty"`
	Subdomain  *string `json:"subdomain,omitempty"`
	BrandColor *string `json:"brand_color,omitempty"`
	Currency   *string `json:"currency,omitempty"`
}

// CreateCompany handles tenant creation.
func CreateCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		var payload createCompanyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Create(r.Context(), companysvc.CreateCompanyInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Phone:      payload.Phone,
			Domain:     payload.Domain,
			Subdomain:  payload.Subdomain,
			BrandColor: payload.BrandColor,
			Currency:   payload.Currency,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, company)
	}
}

type updateCompanyRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Domain     *string `json:"domain,omitempty"`
	Subdomain  *string `json:"subdomain,omitempty"`
	BrandColor *string `json:"brand_color,omitempty"`
	Currency   *string `json:"currency,omitempty"`
	LogoURL    *string `json:"logo_url,omitempty"`
	BannerURL  *string `json:"banner_url,omitempty"`
}

// UpdateCompany handles partial tenant updates.
func UpdateCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCompanyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.Update(r.Context(), id, companysvc.UpdateCompanyInput{
			Name:       payload.Name,
			Email:      payload.Email,
			Phone:      payload.Phone,
			Domain:     payload.Domain,
			Subdomain:  payload.Subdomain,
			BrandColor: payload.BrandColor,
			Currency:   payload.Currency,
			LogoURL:    payload.LogoURL,
			BannerURL:  payload.BannerURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// DeactivateCompany handles the soft delete of a tenant.
func DeactivateCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return setCompanyActive(svc, logg, false)
}

// ReactivateCompany clears the soft-delete flag.
func ReactivateCompany(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return setCompanyActive(svc, logg, true)
}

func setCompanyActive(svc companysvc.Service, logg *logger.Logger, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.SetActive(r.Context(), id, active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanyConfigBySubdomain serves the public per-tenant frontend config.
func CompanyConfigBySubdomain(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		subdomain := strings.TrimSpace(chi.URLParam(r, "subdomain"))
		if subdomain == "" {
			subdomain = strings.TrimSpace(r.URL.Query().Get("subdomain"))
		}
		if subdomain == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "subdomain is required"))
			return
		}

		cfg, err := svc.ConfigBySubdomain(r.Context(), subdomain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// CompanyConfig serves the tenant's frontend config by id.
func CompanyConfig(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.ConfigByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// InvalidateCompanyConfig drops the cached config and broadcasts invalidation.
func InvalidateCompanyConfig(svc companysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "company service unavailable"))
			return
		}

		id, err := tenantFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := requireTenantEditor(r, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.InvalidateConfig(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "invalidated"})
	}
}
