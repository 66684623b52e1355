package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
)

// ServiceDTO exposes a rental add-on from the global catalog.
type ServiceDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Mandatory   bool            `json:"mandatory"`
	MaxQuantity int             `json:"max_quantity"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ServiceFromModel maps the persisted add-on into a DTO.
func ServiceFromModel(m *models.AdditionalService) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Mandatory:   m.Mandatory,
		MaxQuantity: m.MaxQuantity,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CompanyServiceDTO exposes a company's opt-in row.
type CompanyServiceDTO struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	ServiceID uuid.UUID `json:"service_id"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyServiceFromModel maps the persisted opt-in into a DTO.
func CompanyServiceFromModel(m *models.CompanyService) *CompanyServiceDTO {
	if m == nil {
		return nil
	}
	return &CompanyServiceDTO{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		ServiceID: m.ServiceID,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// BookingServiceDTO exposes the booking-time snapshot of an add-on.
type BookingServiceDTO struct {
	ID             uuid.UUID       `json:"id"`
	BookingID      uuid.UUID       `json:"booking_id"`
	ServiceID      uuid.UUID       `json:"service_id"`
	PriceAtBooking decimal.Decimal `json:"price_at_booking"`
	Quantity       int             `json:"quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BookingServiceFromModel maps the persisted snapshot into a DTO.
func BookingServiceFromModel(m *models.BookingService) *BookingServiceDTO {
	if m == nil {
		return nil
	}
	return &BookingServiceDTO{
		ID:             m.ID,
		BookingID:      m.BookingID,
		ServiceID:      m.ServiceID,
		PriceAtBooking: m.PriceAtBooking,
		Quantity:       m.Quantity,
		Subtotal:       m.Subtotal,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
