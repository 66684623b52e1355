package users

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

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, companyID *uuid.UUID, params pagination.Params) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Actor identifies the authenticated staff principal performing an operation.
type Actor struct {
	UserID    uuid.UUID
	CompanyID *uuid.UUID
	Role      enums.StaffRole
}

// Service exposes staff account management and login.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResultDTO, error)
	List(ctx context.Context, actor Actor, params pagination.Params) ([]UserDTO, int64, error)
	GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error)
	Create(ctx context.Context, actor Actor, input CreateUserInput) (*UserDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateUserInput) (*UserDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type service struct {
	repo   userRepository
	jwtCfg config.JWTConfig
	pwCfg  config.PasswordConfig
	now    func() time.Time
}

// NewService wires staff account management to its repository and auth config.
func NewService(repo userRepository, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, pwCfg: pwCfg, now: time.Now}, nil
}

// CreateUserInput captures the fields accepted when creating a staff account.
type CreateUserInput struct {
	CompanyID *uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// UpdateUserInput captures the allowed fields for mutation. Nil means "leave as is".
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *string
	Active    *bool
	Password  *string
}

// Login authenticates a staff account and mints its JWT. Unknown emails,
// wrong passwords and inactive accounts all produce the same answer.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResultDTO, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok || !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Kind:      enums.PrincipalKindStaff,
		Role:      user.Role.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	loginAt := s.now()
	user.LastLoginAt = &loginAt
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	return &LoginResultDTO{Token: token, User: *FromModel(user)}, nil
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params) ([]UserDTO, int64, error) {
	var scope *uuid.UUID
	switch actor.Role {
	case enums.StaffRoleMainAdmin:
		scope = nil
	case enums.StaffRoleAdmin:
		if actor.CompanyID == nil {
			return nil, 0, pkgerrors.New(pkgerrors.CodeForbidden, "admin has no company scope")
		}
		scope = actor.CompanyID
	default:
		return nil, 0, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	rows, total, err := s.repo.List(ctx, scope, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	dtos := make([]UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, user) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return FromModel(user), nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateUserInput) (*UserDTO, error) {
	role, err := enums.ParseStaffRole(strings.TrimSpace(input.Role))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of worker, admin, mainadmin")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	companyID := input.CompanyID
	switch actor.Role {
	case enums.StaffRoleMainAdmin:
		// no restrictions
	case enums.StaffRoleAdmin:
		if role != enums.StaffRoleWorker {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins may only create workers")
		}
		if actor.CompanyID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin has no company scope")
		}
		// Admin-created workers always land in the admin's company.
		companyID = actor.CompanyID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if pkgerrors.IsUniqueViolation(err, "users_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(actor, user) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role for this user")
	}

	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name cannot be empty")
		}
		user.FirstName = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		user.LastName = name
	}
	if input.Role != nil {
		role, err := enums.ParseStaffRole(strings.TrimSpace(*input.Role))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be one of worker, admin, mainadmin")
		}
		if actor.Role == enums.StaffRoleAdmin && role != enums.StaffRoleWorker {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins may not promote beyond worker")
		}
		user.Role = role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.pwCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return FromModel(user), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.UserID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete own account")
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.canManage(actor, user) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role for this user")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// canView allows mainadmins everywhere, admins inside their company and
// workers only on themselves.
func (s *service) canView(actor Actor, target *models.User) bool {
	switch actor.Role {
	case enums.StaffRoleMainAdmin:
		return true
	case enums.StaffRoleAdmin:
		return actor.CompanyID != nil && target.CompanyID != nil && *actor.CompanyID == *target.CompanyID
	default:
		return actor.UserID == target.ID
	}
}

// canManage allows mainadmins everywhere and admins only over workers of
// their own company.
func (s *service) canManage(actor Actor, target *models.User) bool {
	switch actor.Role {
	case enums.StaffRoleMainAdmin:
		return true
	case enums.StaffRoleAdmin:
		if target.Role != enums.StaffRoleWorker {
			return false
		}
		return actor.CompanyID != nil && target.CompanyID != nil && *actor.CompanyID == *target.CompanyID
	default:
		return false
	}
}
