package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/api/middleware"
	"github.com/fleetdesk/fleetdesk-backend/api/validators"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	return validators.ParseUUIDParam(chi.URLParam(r, param), param)
}

// tenantFromPath resolves the companyID path parameter.
func tenantFromPath(r *http.Request) (uuid.UUID, error) {
	return pathUUID(r, "companyID")
}

// requireTenantEditor rejects principals that may not mutate the company's
// data. Mainadmins pass for any tenant, admins only for their own; workers
// and plain agents never pass.
func requireTenantEditor(r *http.Request, companyID uuid.UUID) error {
	if !middleware.MayEditTenant(r.Context(), companyID.String()) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot act on this company")
	}
	return nil
}

// requireTenantViewer allows reads for any principal attached to the company
// and for mainadmins of either family.
func requireTenantViewer(r *http.Request, companyID uuid.UUID) error {
	ctx := r.Context()
	role := middleware.RoleFromContext(ctx)
	switch middleware.KindFromContext(ctx) {
	case enums.PrincipalKindStaff:
		if enums.StaffRole(role) == enums.StaffRoleMainAdmin {
			return nil
		}
	case enums.PrincipalKindAgent:
		if enums.AgentRole(role) == enums.AgentRoleMainAdmin {
			return nil
		}
	default:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if middleware.CompanyIDFromContext(ctx) == companyID.String() {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "cannot view this company")
}

func pageParams(r *http.Request) pagination.Params {
	return pagination.Normalize(pagination.FromRequest(r))
}
