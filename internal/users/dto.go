package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// UserDTO exposes a staff account without its credentials.
type UserDTO struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   *uuid.UUID      `json:"company_id,omitempty"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Role        enums.StaffRole `json:"role"`
	Active      bool            `json:"active"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) *UserDTO {
	if m == nil {
		return nil
	}
	return &UserDTO{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Role:        m.Role,
		Active:      m.Active,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// LoginResultDTO carries the minted token alongside the authenticated user.
type LoginResultDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
