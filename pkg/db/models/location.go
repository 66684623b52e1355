package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical pickup/return point.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Address   *string   `gorm:"column:address" json:"address,omitempty"`
	City      *string   `gorm:"column:city" json:"city,omitempty"`
	Country   *string   `gorm:"column:country" json:"country,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// CompanyLocation mirrors Location for the company-scoped surface.
// Invariant: when both rows exist they share the same id; create/update
// dual-writes them inside one transaction.
type CompanyLocation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Address   *string   `gorm:"column:address" json:"address,omitempty"`
	City      *string   `gorm:"column:city" json:"city,omitempty"`
	Country   *string   `gorm:"column:country" json:"country,omitempty"`
	Phone     *string   `gorm:"column:phone" json:"phone,omitempty"`
	Active    bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
