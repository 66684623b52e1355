package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
)

// CategoryDTO exposes catalog categories in API responses.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryFromModel maps the persisted category into a DTO.
func CategoryFromModel(m *models.Category) *CategoryDTO {
	if m == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        m.ID,
		Name:      m.Name,
		SortOrder: m.SortOrder,
		CreatedAt: m.CreatedAt,
	}
}

// ModelDTO exposes a global catalog model.
type ModelDTO struct {
	ID            uuid.UUID       `json:"id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	Make          string          `json:"make"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	Seats         int             `json:"seats"`
	Transmission  *string         `json:"transmission,omitempty"`
	BaseDailyRate decimal.Decimal `json:"base_daily_rate"`
	ImageURL      *string         `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ModelFromModel maps the persisted catalog model into a DTO.
func ModelFromModel(m *models.CatalogModel) *ModelDTO {
	if m == nil {
		return nil
	}
	return &ModelDTO{
		ID:            m.ID,
		CategoryID:    m.CategoryID,
		Make:          m.Make,
		Model:         m.Model,
		Year:          m.Year,
		Seats:         m.Seats,
		Transmission:  m.Transmission,
		BaseDailyRate: m.BaseDailyRate,
		ImageURL:      m.ImageURL,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// GroupedModelDTO is a catalog model decorated with tenant overlay data.
// OverrideDailyRate and the counts are zero-valued in untenanted listings.
type GroupedModelDTO struct {
	ModelDTO
	OverrideDailyRate *decimal.Decimal `json:"override_daily_rate,omitempty"`
	VehicleCount      int              `json:"vehicle_count"`
	AvailableCount    int              `json:"available_count"`
}

// GroupedCategoryDTO is one category with its (possibly filtered) models.
type GroupedCategoryDTO struct {
	Category CategoryDTO       `json:"category"`
	Models   []GroupedModelDTO `json:"models"`
}
