package locations

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
)

// LocationDTO exposes pickup/return points in API responses.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateLocationDTO holds creation-time data for a new location.
type CreateLocationDTO struct {
	CompanyID uuid.UUID
	Name      string
	Address   *string
	City      *string
	Country   *string
	Phone     *string
}

// FromModel maps the persisted location into a DTO.
func FromModel(m *models.Location) *LocationDTO {
	if m == nil {
		return nil
	}
	return &LocationDTO{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		Address:   m.Address,
		City:      m.City,
		Country:   m.Country,
		Phone:     m.Phone,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
