package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups catalog models (SUV, Sedan, Van, ...). Global, not
// tenant-scoped.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// CatalogModel is a global make/model/year definition independent of any fleet.
type CatalogModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID    uuid.UUID       `gorm:"column:category_id;type:uuid;not null;index" json:"category_id"`
	Make          string          `gorm:"column:make;not null" json:"make"`
	Model         string          `gorm:"column:model;not null" json:"model"`
	Year          int             `gorm:"column:year;not null" json:"year"`
	Seats         int             `gorm:"column:seats;not null;default:5" json:"seats"`
	Transmission  *string         `gorm:"column:transmission" json:"transmission,omitempty"`
	BaseDailyRate decimal.Decimal `gorm:"column:base_daily_rate;type:numeric(10,2);not null" json:"base_daily_rate"`
	ImageURL      *string         `gorm:"column:image_url" json:"image_url,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// VehicleModel is a per-company rate override layered onto a CatalogModel.
type VehicleModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID       `gorm:"column:company_id;type:uuid;not null;uniqueIndex:vehicle_models_company_model_key" json:"company_id"`
	ModelID   uuid.UUID       `gorm:"column:model_id;type:uuid;not null;uniqueIndex:vehicle_models_company_model_key" json:"model_id"`
	DailyRate decimal.Decimal `gorm:"column:daily_rate;type:numeric(10,2);not null" json:"daily_rate"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
