package middleware

import (
	"context"
	"net/http"

	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
)

// RequireStaff rejects requests whose token does not belong to a staff account.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(enums.PrincipalKindStaff, logg)
}

// RequireAgent rejects requests whose token does not belong to an agent account.
func RequireAgent(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(enums.PrincipalKindAgent, logg)
}

func requireKind(kind enums.PrincipalKind, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if KindFromContext(r.Context()) != kind {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account type not allowed"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaffAdmin allows only administrative staff roles through.
func RequireStaffAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.StaffRole(RoleFromContext(r.Context()))
			if KindFromContext(r.Context()) != enums.PrincipalKindStaff || !role.IsAdministrative() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MayEditTenant reports whether the principal can mutate the given company's
// data. Both predicates must hold: the role is administrative in its own
// family, and the tenant matches. Mainadmins act across tenants; admins only
// inside their own. Workers and plain agents never mutate tenant data.
func MayEditTenant(ctx context.Context, companyID string) bool {
	role := RoleFromContext(ctx)
	switch KindFromContext(ctx) {
	case enums.PrincipalKindStaff:
		staffRole := enums.StaffRole(role)
		if staffRole == enums.StaffRoleMainAdmin {
			return true
		}
		if !staffRole.IsAdministrative() {
			return false
		}
	case enums.PrincipalKindAgent:
		agentRole := enums.AgentRole(role)
		if agentRole == enums.AgentRoleMainAdmin {
			return true
		}
		if !agentRole.IsAdministrative() {
			return false
		}
	default:
		return false
	}
	own := CompanyIDFromContext(ctx)
	return own != "" && own == companyID
}
