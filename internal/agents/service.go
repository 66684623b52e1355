package agents

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/auth"
	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
	"github.com/fleetdesk/fleetdesk-backend/pkg/security"
)

const minPasswordLength = 8

type agentRepository interface {
	Create(ctx context.Context, agent *models.AegisUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AegisUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AegisUser, error)
	List(ctx context.Context, companyID *uuid.UUID, params pagination.Params) ([]models.AegisUser, int64, error)
	Update(ctx context.Context, agent *models.AegisUser) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Actor identifies the authenticated agent principal performing an operation.
type Actor struct {
	AgentID   uuid.UUID
	CompanyID *uuid.UUID
	Role      enums.AgentRole
}

// Service exposes agent account management and login. Agents and staff are
// separate bounded contexts; the role checks here are intentionally not
// shared with the staff side.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResultDTO, error)
	List(ctx context.Context, actor Actor, params pagination.Params) ([]AgentDTO, int64, error)
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*AgentDTO, error)
	Create(ctx context.Context, actor Actor, input CreateAgentInput) (*AgentDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateAgentInput) (*AgentDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type service struct {
	repo   agentRepository
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	now    func() time.Time
}

// NewService wires agent account management to its repository and auth config.
func NewService(repo agentRepository, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("agent repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, pwCfg: pwCfg, now: time.Now}, nil
}

// CreateAgentInput captures the fields accepted when creating an agent.
type CreateAgentInput struct {
	CompanyID *uuid.UUID
	Email     string
	Password  string
	Name      string
	Role      string
}

// UpdateAgentInput captures the allowed fields for mutation. Nil means "leave as is".
type UpdateAgentInput struct {
	Name     *string
	Role     *string
	Active   *bool
	Password *string
}

// Login authenticates an agent and mints its JWT. Unknown emails, wrong
// passwords and inactive accounts all produce the same answer.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResultDTO, error) {
	agent, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}

	ok, err := security.VerifyPassword(password, agent.PasswordHash)
	if err != nil || !ok || !agent.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:    agent.ID,
		CompanyID: agent.CompanyID,
		Kind:      enums.PrincipalKindAgent,
		Role:      agent.Role.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	loginAt := s.now()
	agent.LastLoginAt = &loginAt
	if err := s.repo.Update(ctx, agent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	return &LoginResultDTO{Token: token, Agent: *FromModel(agent)}, nil
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params) ([]AgentDTO, int64, error) {
	var scope *uuid.UUID
	switch actor.Role {
	case enums.AgentRoleMainAdmin:
		scope = nil
	case enums.AgentRoleAdmin:
		if actor.CompanyID == nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeForbidden, "admin has no company scope")
		}
		scope = actor.CompanyID
	default:
		return nil, 0, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	rows, total, err := s.repo.List(ctx, scope, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agents")
	}
	dtos := make([]AgentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*AgentDTO, error) {
	agent, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, agent) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}
	return FromModel(agent), nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateAgentInput) (*AgentDTO, error) {
	role, err := enums.ParseAgentRole(strings.TrimSpace(input.Role))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of mainadmin, admin, agent")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	companyID := input.CompanyID
	switch actor.Role {
	case enums.AgentRoleMainAdmin:
		// no restrictions
	case enums.AgentRoleAdmin:
		if role != enums.AgentRoleAgent {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins may only create agents")
		}
		if actor.CompanyID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin has no company scope")
		}
		companyID = actor.CompanyID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	agent := &models.AegisUser{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, agent); err != nil {
		if pkgerrors.IsUniqueViolation(err, "aegis_users_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create agent")
	}
	return FromModel(agent), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateAgentInput) (*AgentDTO, error) {
	agent, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, agent) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role for this agent")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		agent.Name = name
	}
	if input.Role != nil {
		role, err := enums.ParseAgentRole(strings.TrimSpace(*input.Role))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of mainadmin, admin, agent")
		}
		if actor.Role == enums.AgentRoleAdmin && role != enums.AgentRoleAgent {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins may not promote beyond agent")
		}
		agent.Role = role
	}
	if input.Active != nil {
		agent.Active = *input.Active
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		agent.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, agent); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent")
	}
	return FromModel(agent), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.AgentID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete own account")
	}
	agent, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.canManage(actor, agent) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role for this agent")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete agent")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.AegisUser, error) {
	agent, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	return agent, nil
}

// canView allows mainadmins everywhere, admins inside their company and
// agents only on themselves.
func (s *service) canView(actor Actor, target *models.AegisUser) bool {
	switch actor.Role {
	case enums.AgentRoleMainAdmin:
		return true
	case enums.AgentRoleAdmin:
		return actor.CompanyID != nil && target.CompanyID != nil && *actor.CompanyID == *target.CompanyID
	default:
		return actor.AgentID == target.ID
	}
}

// canManage allows mainadmins everywhere and admins only over agent-role
// accounts of their own company.
func (s *service) canManage(actor Actor, target *models.AegisUser) bool {
	switch actor.Role {
	case enums.AgentRoleMainAdmin:
		return true
	case enums.AgentRoleAdmin:
		if target.Role != enums.AgentRoleAgent {
			return false
		}
		return actor.CompanyID != nil && target.CompanyID != nil && *actor.CompanyID == *target.CompanyID
	default:
		return false
	}
}
