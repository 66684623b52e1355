package vehicles

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// VehicleDTO exposes fleet vehicles in API responses.
type VehicleDTO struct {
	ID         uuid.UUID           `json:"id"`
	CompanyID  uuid.UUID           `json:"company_id"`
	LocationID *uuid.UUID          `json:"location_id,omitempty"`
	Make       string              `json:"make"`
	Model      string              `json:"model"`
	Year       int                 `json:"year"`
	Plate      string              `json:"plate"`
	Status     enums.VehicleStatus `json:"status"`
	DailyRate  decimal.Decimal     `json:"daily_rate"`
	ImageURL   *string             `json:"image_url,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// FromModel maps the persisted vehicle into a DTO.
func FromModel(m *models.Vehicle) *VehicleDTO {
	if m == nil {
		return nil
	}
	return &VehicleDTO{
		ID:         m.ID,
		CompanyID:  m.CompanyID,
		LocationID: m.LocationID,
		Make:       m.Make,
		Model:      m.Model,
		Year:       m.Year,
		Plate:      m.Plate,
		Status:     m.Status,
		DailyRate:  m.DailyRate,
		ImageURL:   m.ImageURL,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
