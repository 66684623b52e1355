package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdditionalService is a global catalog of rental add-ons.
type AdditionalService struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Mandatory   bool            `gorm:"column:mandatory;not null;default:false" json:"mandatory"`
	MaxQuantity int             `gorm:"column:max_quantity;not null;default:1" json:"max_quantity"`
	Active      bool            `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// CompanyService is a company opt-in row for an AdditionalService.
type CompanyService struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex:company_services_company_service_key" json:"company_id"`
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid;not null;uniqueIndex:company_services_company_service_key" json:"service_id"`
	Enabled   bool      `gorm:"column:enabled;not null;default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BookingService is the frozen price/quantity snapshot recorded when an add-on
// is attached to a booking. Subtotal is stored, not derived; every mutator
// must keep subtotal == price_at_booking * quantity.
type BookingService struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID      uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;index" json:"booking_id"`
	ServiceID      uuid.UUID       `gorm:"column:service_id;type:uuid;not null" json:"service_id"`
	PriceAtBooking decimal.Decimal `gorm:"column:price_at_booking;type:numeric(10,2);not null" json:"price_at_booking"`
	Quantity       int             `gorm:"column:quantity;not null" json:"quantity"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null" json:"subtotal"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
