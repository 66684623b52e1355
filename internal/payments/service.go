package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/logger"
	stripeclient "github.com/fleetdesk/fleetdesk-backend/pkg/stripe"
)

type transferRepository interface {
	CreateTransfer(ctx context.Context, transfer *models.StripeTransfer) error
	ListTransfersByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.StripeTransfer, error)
}

type bookingFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

type companyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type paymentProvider interface {
	CreateTransfer(ctx context.Context, in stripeclient.TransferInput) (*stripe.Transfer, error)
	AuthorizeDeposit(ctx context.Context, in stripeclient.DepositInput) (*stripe.PaymentIntent, error)
	CreateConnectionToken(ctx context.Context) (*stripe.TerminalConnectionToken, error)
	CreateTerminalPaymentIntent(ctx context.Context, in stripeclient.TerminalIntentInput) (*stripe.PaymentIntent, error)
}

// Service exposes the Connect money-movement operations. The provider owns the
// real state machine; this layer only gates calls on local booking state.
type Service interface {
	TransferFunds(ctx context.Context, companyID, bookingID uuid.UUID, amountCents int64) (*TransferDTO, error)
	TransferStatus(ctx context.Context, companyID, bookingID uuid.UUID) ([]TransferDTO, error)
	AuthorizeDeposit(ctx context.Context, companyID, bookingID uuid.UUID, amountCents int64, paymentMethodID string) (*DepositDTO, error)
	ConnectionToken(ctx context.Context, companyID uuid.UUID) (*ConnectionTokenDTO, error)
	TerminalIntent(ctx context.Context, companyID, bookingID uuid.UUID, amountCents int64) (*TerminalIntentDTO, error)
}

type service struct {
	transfers transferRepository
	bookings  bookingFinder
	companies companyFinder
	provider  paymentProvider
	logg      *logger.Logger
}

// NewService wires the payment flows to their collaborators.
func NewService(transfers transferRepository, bookings bookingFinder, companies companyFinder, provider paymentProvider, logg *logger.Logger) (Service, error) {
	if transfers == nil || bookings == nil || companies == nil {
		return nil, fmt.Errorf("payment repositories required")
	}
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	return &service{
		transfers: transfers,
		bookings:  bookings,
		companies: companies,
		provider:  provider,
		logg:      logg,
	}, nil
}

// TransferFunds moves booking revenue to the company's connected account.
// The booking status gate runs before any provider call.
func (s *service) TransferFunds(ctx context.Context, companyID, bookingID uuid.UUID, amountCents int64) (*TransferDTO, error) {
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	booking, err := s.loadScopedBooking(ctx, companyID, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.AllowsFundTransfer() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("booking status %s does not permit transfers", booking.Status))
	}

	company, account, err := s.loadConnectedCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	providerTransfer, err := s.provider.CreateTransfer(ctx, stripeclient.TransferInput{
		DestinationAccount: account,
		AmountCents:        amountCents,
		Currency:           company.Currency,
		BookingID:          bookingID.String(),
	})
	if err != nil {
		s.recordFailedTransfer(ctx, booking, company, amountCents, err)
		return nil, err
	}

	record := &models.StripeTransfer{
		ID:                 uuid.New(),
		BookingID:          booking.ID,
		CompanyID:          company.ID,
		ProviderTransferID: providerTransfer.ID,
		AmountCents:        amountCents,
		Currency:           company.Currency,
		Status:             enums.TransferStatusPending,
	}
	if err := s.transfers.CreateTransfer(ctx, record); err != nil {
		// provider already moved the money; surface the record failure
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record transfer")
	}
	return TransferFromModel(record), nil
}

// TransferStatus lists a booking's transfer records, most recent first.
func (s *service) TransferStatus(ctx context.Context, companyID, bookingID uuid.UUID) ([]TransferDTO, error) {
	if _, err := s.loadScopedBooking(ctx, companyID, bookingID); err != nil {
		return nil, err
	}
	rows, err := s.transfers.ListTransfersByBooking(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transfers")
	}
	dtos := make([]TransferDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *TransferFromModel(&rows[i]))
	}
	return dtos, nil
}

// AuthorizeDeposit places a manual-capture hold for the security deposit.
func (s *service) AuthorizeDeposit(ctx context.Context, companyID, bookingID uuid.UUID, amountCents int64, paymentMethodID string) (*DepositDTO, error) {
	paymentMethodID = strings.TrimSpace(paymentMethodID)
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if paymentMethodID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}

	booking, err := s.loadScopedBooking(ctx, companyID, bookingID)
	if err != nil {
		return nil, err
	}
	company, account, err := s.loadConnectedCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.AuthorizeDeposit(ctx, stripeclient.DepositInput{
		ConnectedAccount: account,
		PaymentMethodID:  paymentMethodID,
		AmountCents:      amountCents,
		Currency:         company.Currency,
		BookingID:        booking.ID.String(),
	})
	if err != nil {
		return nil, err
	}
	return &DepositDTO{
		ProviderIntentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
		AmountCents:      amountCents,
		Currency:         company.Currency,
		Status:           string(intent.Status),
	}, nil
}

// ConnectionToken issues a Terminal SDK token. The company must have a linked
// connected account; absence is a client error, not a fault.
func (s *service) ConnectionToken(ctx context.Context, companyID uuid.UUID) (*ConnectionTokenDTO, error) {
	if _, _, err := s.loadConnectedCompany(ctx, companyID); err != nil {
		return nil, err
	}
	token, err := s.provider.CreateConnectionToken(ctx)
	if err != nil {
		return nil, err
	}
	return &ConnectionTokenDTO{Secret: token.Secret}, nil
}

// TerminalIntent opens a card-present intent routed to the connected account.
func (s *service) TerminalIntent(ctx context.Context, companyID, bookingID uuid.UUID, amountCents int64) (*TerminalIntentDTO, error) {
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	booking, err := s.loadScopedBooking(ctx, companyID, bookingID)
	if err != nil {
		return nil, err
	}
	company, account, err := s.loadConnectedCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.CreateTerminalPaymentIntent(ctx, stripeclient.TerminalIntentInput{
		ConnectedAccount: account,
		AmountCents:      amountCents,
		Currency:         company.Currency,
		BookingID:        booking.ID.String(),
	})
	if err != nil {
		return nil, err
	}
	return &TerminalIntentDTO{
		ProviderIntentID: intent.ID,
		ClientSecret:     intent.ClientSecret,
		AmountCents:      amountCents,
		Currency:         company.Currency,
	}, nil
}

func (s *service) loadScopedBooking(ctx context.Context, companyID, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.CompanyID != companyID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return booking, nil
}

func (s *service) loadConnectedCompany(ctx context.Context, companyID uuid.UUID) (*models.Company, string, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	if company.StripeAccountID == nil || strings.TrimSpace(*company.StripeAccountID) == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "company has no connected payment account")
	}
	return company, *company.StripeAccountID, nil
}

func (s *service) recordFailedTransfer(ctx context.Context, booking *models.Booking, company *models.Company, amountCents int64, cause error) {
	msg := cause.Error()
	record := &models.StripeTransfer{
		ID:             uuid.New(),
		BookingID:      booking.ID,
		CompanyID:      company.ID,
		AmountCents:    amountCents,
		Currency:       company.Currency,
		Status:         enums.TransferStatusFailed,
		FailureMessage: &msg,
	}
	if err := s.transfers.CreateTransfer(ctx, record); err != nil && s.logg != nil {
		s.logg.Error(ctx, "recording failed transfer", err)
	}
}
