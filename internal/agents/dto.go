package agents

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// AgentDTO exposes a tenant-facing agent account without its credentials.
type AgentDTO struct {
	ID          uuid.UUID       `json:"id"`
	CompanyID   *uuid.UUID      `json:"company_id,omitempty"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        enums.AgentRole `json:"role"`
	Active      bool            `json:"active"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel maps the persisted agent into a DTO.
func FromModel(m *models.AegisUser) *AgentDTO {
	if m == nil {
		return nil
	}
	return &AgentDTO{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Email:       m.Email,
		Name:        m.Name,
		Role:        m.Role,
		Active:      m.Active,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// LoginResultDTO carries the minted token alongside the authenticated agent.
type LoginResultDTO struct {
	Token string   `json:"token"`
	Agent AgentDTO `json:"agent"`
}
