package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// Booking is a rental reservation. Status gates which payment operations are
// permitted.
type Booking struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID        uuid.UUID           `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	VehicleID        uuid.UUID           `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	CustomerName     string              `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerEmail    string              `gorm:"column:customer_email;not null" json:"customer_email"`
	CustomerPhone    *string             `gorm:"column:customer_phone" json:"customer_phone,omitempty"`
	PickupLocationID *uuid.UUID          `gorm:"column:pickup_location_id;type:uuid" json:"pickup_location_id,omitempty"`
	ReturnLocationID *uuid.UUID          `gorm:"column:return_location_id;type:uuid" json:"return_location_id,omitempty"`
	StartDate        time.Time           `gorm:"column:start_date;not null" json:"start_date"`
	EndDate          time.Time           `gorm:"column:end_date;not null" json:"end_date"`
	Status           enums.BookingStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
