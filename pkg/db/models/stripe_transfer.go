package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// StripeTransfer records a Connect transfer tied to a booking. Rows are
// append-only; status queries read most-recent-first.
type StripeTransfer struct {
	ID                 uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID          uuid.UUID            `gorm:"column:booking_id;type:uuid;not null;index" json:"booking_id"`
	CompanyID          uuid.UUID            `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	ProviderTransferID string               `gorm:"column:provider_transfer_id;not null" json:"provider_transfer_id"`
	AmountCents        int64                `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Currency           string               `gorm:"column:currency;not null;default:'usd'" json:"currency"`
	Status             enums.TransferStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	FailureMessage     *string              `gorm:"column:failure_message" json:"failure_message,omitempty"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
