package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNullableUUIDAbsent(t *testing.T) {
	var payload struct {
		LocationID NullableUUID `json:"location_id"`
	}
	if err := json.Unmarshal([]byte(`{}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.LocationID.Valid {
		t.Fatal("expected absent field to stay invalid")
	}
}

func TestNullableUUIDNull(t *testing.T) {
	var payload struct {
		LocationID NullableUUID `json:"location_id"`
	}
	if err := json.Unmarshal([]byte(`{"location_id":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.LocationID.Valid || payload.LocationID.Value != nil {
		t.Fatalf("expected explicit null, got %+v", payload.LocationID)
	}
}

func TestNullableUUIDValue(t *testing.T) {
	id := uuid.New()
	var payload struct {
		LocationID NullableUUID `json:"location_id"`
	}
	if err := json.Unmarshal([]byte(`{"location_id":"`+id.String()+`"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.LocationID.Valid || payload.LocationID.Value == nil || *payload.LocationID.Value != id {
		t.Fatalf("expected value %s, got %+v", id, payload.LocationID)
	}
}

func TestNullableStringStates(t *testing.T) {
	var payload struct {
		Subdomain NullableString `json:"subdomain"`
	}
	if err := json.Unmarshal([]byte(`{"subdomain":"rent-a-car"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Subdomain.Valid || payload.Subdomain.Value == nil || *payload.Subdomain.Value != "rent-a-car" {
		t.Fatalf("expected value, got %+v", payload.Subdomain)
	}

	payload.Subdomain = NullableString{}
	if err := json.Unmarshal([]byte(`{"subdomain":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Subdomain.Valid || payload.Subdomain.Value != nil {
		t.Fatalf("expected explicit null, got %+v", payload.Subdomain)
	}
}
