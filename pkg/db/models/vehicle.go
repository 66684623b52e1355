package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// Vehicle belongs to a company and optionally a location.
// Catalog linkage is by normalized make/model/year values, not a foreign key.
type Vehicle struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID  uuid.UUID           `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	LocationID *uuid.UUID          `gorm:"column:location_id;type:uuid;index" json:"location_id,omitempty"`
	Make       string              `gorm:"column:make;not null" json:"make"`
	Model      string              `gorm:"column:model;not null" json:"model"`
	Year       int                 `gorm:"column:year;not null" json:"year"`
	Plate      string              `gorm:"column:plate;not null" json:"plate"`
	Status     enums.VehicleStatus `gorm:"column:status;not null;default:'available'" json:"status"`
	DailyRate  decimal.Decimal     `gorm:"column:daily_rate;type:numeric(10,2);not null" json:"daily_rate"`
	ImageURL   *string             `gorm:"column:image_url" json:"image_url,omitempty"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
