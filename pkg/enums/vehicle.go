package enums

import "fmt"

// VehicleStatus represents the canonical vehicle_status enum in Postgres.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusRented       VehicleStatus = "rented"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

var validVehicleStatuses = []VehicleStatus{
	VehicleStatusAvailable,
	VehicleStatusRented,
	VehicleStatusMaintenance,
	VehicleStatusOutOfService,
}

// String implements fmt.Stringer.
func (s VehicleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VehicleStatus.
func (s VehicleStatus) IsValid() bool {
	for _, candidate := range validVehicleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseVehicleStatus converts raw input into a VehicleStatus.
func ParseVehicleStatus(value string) (VehicleStatus, error) {
	for _, candidate := range validVehicleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vehicle status %q", value)
}
