package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
)

// TransferInput describes a payout of booking funds to a connected account.
type TransferInput struct {
	DestinationAccount string
	AmountCents        int64
	Currency           string
	BookingID          string
}

// DepositInput describes a manual-capture security deposit hold.
type DepositInput struct {
	ConnectedAccount string
	PaymentMethodID  string
	AmountCents      int64
	Currency         string
	BookingID        string
}

// TerminalIntentInput describes an in-person card-present payment.
type TerminalIntentInput struct {
	ConnectedAccount string
	AmountCents      int64
	Currency         string
	BookingID        string
}

// CreateTransfer moves booking funds to the company's connected account.
func (c *Client) CreateTransfer(ctx context.Context, in TransferInput) (*stripe.Transfer, error) {
	params := &stripe.TransferCreateParams{
		Amount:      stripe.Int64(in.AmountCents),
		Currency:    stripe.String(in.Currency),
		Destination: stripe.String(in.DestinationAccount),
	}
	params.AddMetadata("booking_id", in.BookingID)

	transfer, err := c.api.V1Transfers.Create(ctx, params)
	if err != nil {
		return nil, wrapProviderErr(err, "creating transfer")
	}
	return transfer, nil
}

// AuthorizeDeposit places a manual-capture hold for the security deposit on
// behalf of the company's connected account. Funds are captured or released
// later by the terminal flow.
func (c *Client) AuthorizeDeposit(ctx context.Context, in DepositInput) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(in.AmountCents),
		Currency:           stripe.String(in.Currency),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		PaymentMethod:      stripe.String(in.PaymentMethodID),
		Confirm:            stripe.Bool(true),
		OnBehalfOf:         stripe.String(in.ConnectedAccount),
		TransferData: &stripe.PaymentIntentCreateTransferDataParams{
			Destination: stripe.String(in.ConnectedAccount),
		},
	}
	params.AddMetadata("booking_id", in.BookingID)
	params.AddMetadata("purpose", "security_deposit")

	intent, err := c.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, wrapProviderErr(err, "authorizing deposit")
	}
	return intent, nil
}

// CreateConnectionToken issues a short-lived token for Terminal SDK clients.
func (c *Client) CreateConnectionToken(ctx context.Context) (*stripe.TerminalConnectionToken, error) {
	token, err := c.api.V1TerminalConnectionTokens.Create(ctx, &stripe.TerminalConnectionTokenCreateParams{})
	if err != nil {
		return nil, wrapProviderErr(err, "creating connection token")
	}
	return token, nil
}

// CreateTerminalPaymentIntent opens a card-present intent routed to the
// company's connected account.
func (c *Client) CreateTerminalPaymentIntent(ctx context.Context, in TerminalIntentInput) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(in.AmountCents),
		Currency:           stripe.String(in.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card_present"}),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodAutomatic)),
		OnBehalfOf:         stripe.String(in.ConnectedAccount),
		TransferData: &stripe.PaymentIntentCreateTransferDataParams{
			Destination: stripe.String(in.ConnectedAccount),
		},
	}
	params.AddMetadata("booking_id", in.BookingID)

	intent, err := c.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, wrapProviderErr(err, "creating terminal intent")
	}
	return intent, nil
}

// wrapProviderErr converts Stripe API failures into the typed provider error
// so callers surface the provider's own message to clients.
func wrapProviderErr(err error, action string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = action + " failed"
		}
		return pkgerrors.Wrap(pkgerrors.CodeProvider, err, msg).WithDetails(map[string]string{
			"provider_code": string(stripeErr.Code),
		})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action+" failed")
}
