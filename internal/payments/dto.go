package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// TransferDTO exposes one Connect transfer record.
type TransferDTO struct {
	ID                 uuid.UUID            `json:"id"`
	BookingID          uuid.UUID            `json:"booking_id"`
	CompanyID          uuid.UUID            `json:"company_id"`
	ProviderTransferID string               `json:"provider_transfer_id"`
	AmountCents        int64                `json:"amount_cents"`
	Currency           string               `json:"currency"`
	Status             enums.TransferStatus `json:"status"`
	FailureMessage     *string              `json:"failure_message,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

// TransferFromModel maps the persisted transfer into a DTO.
func TransferFromModel(m *models.StripeTransfer) *TransferDTO {
	if m == nil {
		return nil
	}
	return &TransferDTO{
		ID:                 m.ID,
		BookingID:          m.BookingID,
		CompanyID:          m.CompanyID,
		ProviderTransferID: m.ProviderTransferID,
		AmountCents:        m.AmountCents,
		Currency:           m.Currency,
		Status:             m.Status,
		FailureMessage:     m.FailureMessage,
		CreatedAt:          m.CreatedAt,
	}
}

// DepositDTO reports the provider hold placed for a security deposit.
type DepositDTO struct {
	ProviderIntentID string `json:"provider_intent_id"`
	ClientSecret     string `json:"client_secret"`
	AmountCents      int64  `json:"amount_cents"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
}

// TerminalIntentDTO reports a card-present intent opened for in-person payment.
type TerminalIntentDTO struct {
	ProviderIntentID string `json:"provider_intent_id"`
	ClientSecret     string `json:"client_secret"`
	AmountCents      int64  `json:"amount_cents"`
	Currency         string `json:"currency"`
}

// ConnectionTokenDTO carries the short-lived Terminal SDK secret.
type ConnectionTokenDTO struct {
	Secret string `json:"secret"`
}
