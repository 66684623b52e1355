package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
)

type createVehiclePayload struct {
	Make      string `json:"make" validate:"required"`
	Model     string `json:"model" validate:"required"`
	Year      int    `json:"year" validate:"required,min=1980"`
	DailyRate string `json:"daily_rate" validate:"required"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"make":"Toyota","model":"Corolla","year":2022,"daily_rate":"45.00"}`))
	var payload createVehiclePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Make != "Toyota" || payload.Year != 2022 {
		t.Fatalf("payload: %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"make":"Toyota","model":"Corolla","year":2022,"daily_rate":"45.00","bogus":1}`))
	var payload createVehiclePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"make":"","model":"Corolla","year":1950,"daily_rate":"45.00"}`))
	var payload createVehiclePayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("details: %v", typed.Details())
	}
	if details["make"] != "is required" {
		t.Fatalf("make detail: %q", details["make"])
	}
	if !strings.Contains(details["year"], "at least") {
		t.Fatalf("year detail: %q", details["year"])
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3", nil)
	page, err := ParseQueryInt(req, "page", 1, 1, 100)
	if err != nil || page != 3 {
		t.Fatalf("page=%d err=%v", page, err)
	}

	req = httptest.NewRequest("GET", "/", nil)
	page, err = ParseQueryInt(req, "page", 1, 1, 100)
	if err != nil || page != 1 {
		t.Fatalf("default page=%d err=%v", page, err)
	}

	req = httptest.NewRequest("GET", "/?page=abc", nil)
	if _, err = ParseQueryInt(req, "page", 1, 1, 100); err == nil {
		t.Fatal("expected error for non-numeric page")
	}

	req = httptest.NewRequest("GET", "/?page=101", nil)
	if _, err = ParseQueryInt(req, "page", 1, 1, 100); err == nil {
		t.Fatal("expected error for out-of-range page")
	}
}

func TestParseUUIDParam(t *testing.T) {
	if _, err := ParseUUIDParam("not-a-uuid", "company_id"); err == nil {
		t.Fatal("expected error for bad uuid")
	}
	id, err := ParseUUIDParam("4f8f1c1e-24a5-4c3e-9a52-6a79f37a7a10", "company_id")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id.String() != "4f8f1c1e-24a5-4c3e-9a52-6a79f37a7a10" {
		t.Fatalf("id: %s", id)
	}
}
