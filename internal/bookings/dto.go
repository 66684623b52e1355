package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// BookingDTO exposes rental reservations in API responses.
type BookingDTO struct {
	ID               uuid.UUID           `json:"id"`
	CompanyID        uuid.UUID           `json:"company_id"`
	VehicleID        uuid.UUID           `json:"vehicle_id"`
	CustomerName     string              `json:"customer_name"`
	CustomerEmail    string              `json:"customer_email"`
	CustomerPhone    *string             `json:"customer_phone,omitempty"`
	PickupLocationID *uuid.UUID          `json:"pickup_location_id,omitempty"`
	ReturnLocationID *uuid.UUID          `json:"return_location_id,omitempty"`
	StartDate        time.Time           `json:"start_date"`
	EndDate          time.Time           `json:"end_date"`
	Status           enums.BookingStatus `json:"status"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// FromModel maps the persisted booking into a DTO.
func FromModel(m *models.Booking) *BookingDTO {
	if m == nil {
		return nil
	}
	return &BookingDTO{
		ID:               m.ID,
		CompanyID:        m.CompanyID,
		VehicleID:        m.VehicleID,
		CustomerName:     m.CustomerName,
		CustomerEmail:    m.CustomerEmail,
		CustomerPhone:    m.CustomerPhone,
		PickupLocationID: m.PickupLocationID,
		ReturnLocationID: m.ReturnLocationID,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Status:           m.Status,
		TotalAmount:      m.TotalAmount,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
