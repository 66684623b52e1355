package stripe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stripe/stripe-go/v84"

	"github.com/fleetdesk/fleetdesk-backend/pkg/config"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
)

func TestNewClientRejectsMissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{Env: "test"}, nil)
	if !errors.Is(err, errAPIKeyRequired) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestNewClientRejectsMismatchedKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_live_abc", Env: "test"}, nil)
	if err == nil || !strings.Contains(err.Error(), "test secret key") {
		t.Fatalf("expected env/key mismatch error, got %v", err)
	}
}

func TestNewClientRejectsUnknownEnv(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_abc", Env: "staging"}, nil)
	if !errors.Is(err, errInvalidStripeEnv) {
		t.Fatalf("expected invalid env error, got %v", err)
	}
}

func TestNewClientAcceptsTestKey(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_abc", Env: ""}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("environment: %s", client.Environment())
	}
	if client.API() == nil {
		t.Fatal("expected underlying api client")
	}
}

func TestWrapProviderErrSurfacesStripeMessage(t *testing.T) {
	cause := &stripe.Error{Msg: "No such destination", Code: stripe.ErrorCodeResourceMissing}
	err := wrapProviderErr(cause, "creating transfer")

	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != pkgerrors.CodeProvider {
		t.Fatalf("code: %s", typed.Code())
	}
	if typed.Message() != "No such destination" {
		t.Fatalf("message: %s", typed.Message())
	}
}

func TestWrapProviderErrFallsBackToDependency(t *testing.T) {
	err := wrapProviderErr(errors.New("connection refused"), "creating transfer")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
