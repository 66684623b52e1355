package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/api/middleware"
	"github.com/fleetdesk/fleetdesk-backend/api/responses"
	"github.com/fleetdesk/fleetdesk-backend/api/validators"
	agentssvc "github.com/fleetdesk/fleetdesk-backend/internal/agents"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// agentActor rebuilds the calling agent principal from the token context.
func agentActor(r *http.Request) (agentssvc.Actor, error) {
	ctx := r.Context()

	agentID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return agentssvc.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authentication")
	}
	role, err := enums.ParseAgentRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return agentssvc.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authentication")
	}

	actor := agentssvc.Actor{AgentID: agentID, Role: role}
	if raw := middleware.CompanyIDFromContext(ctx); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			return agentssvc.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authentication")
		}
		actor.CompanyID = &companyID
	}
	return actor, nil
}

type agentLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AgentLogin exchanges agent credentials for an access token.
func AgentLogin(svc agentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		var payload agentLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListAgents serves agent accounts visible to the caller.
func ListAgents(svc agentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		actor, err := agentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pageParams(r)
		agents, total, err := svc.List(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pagination.WriteHeaders(w, params, total)
		responses.WriteSuccess(w, agents)
	}
}

// GetAgent serves a single agent account.
func GetAgent(svc agentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		actor, err := agentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.GetByID(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}

type createAgentRequest struct {
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Role      string     `json:"role" validate:"required"`
}

// CreateAgent provisions an agent account.
func CreateAgent(svc agentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		actor, err := agentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAgentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Create(r.Context(), actor, agentssvc.CreateAgentInput{
			CompanyID: payload.CompanyID,
			Email:     payload.Email,
			Password:  payload.Password,
			Name:      payload.Name,
			Role:      payload.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, agent)
	}
}

type updateAgentRequest struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UpdateAgent edits an agent account.
func UpdateAgent(svc agentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		actor, err := agentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAgentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Update(r.Context(), actor, id, agentssvc.UpdateAgentInput{
			Name:     payload.Name,
			Role:     payload.Role,
			Active:   payload.Active,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}

// DeleteAgent removes an agent account.
func DeleteAgent(svc agentssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "agent service unavailable"))
			return
		}

		actor, err := agentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathUUID(r, "agentID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
