package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

type stubVehicleRepo struct {
	byID map[uuid.UUID]*models.Vehicle
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{byID: map[uuid.UUID]*models.Vehicle{}}
}

func (s *stubVehicleRepo) Create(_ context.Context, vehicle *models.Vehicle) error {
	cpy := *vehicle
	s.byID[vehicle.ID] = &cpy
	return nil
}

func (s *stubVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	if vehicle, ok := s.byID[id]; ok {
		cpy := *vehicle
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVehicleRepo) ListByCompany(_ context.Context, companyID uuid.UUID, filter ListFilter, _ pagination.Params) ([]models.Vehicle, int64, error) {
	var rows []models.Vehicle
	for _, vehicle := range s.byID {
		if vehicle.CompanyID != companyID {
			continue
		}
		if filter.Status != nil && vehicle.Status != *filter.Status {
			continue
		}
		rows = append(rows, *vehicle)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubVehicleRepo) Update(_ context.Context, vehicle *models.Vehicle) error {
	cpy := *vehicle
	s.byID[vehicle.ID] = &cpy
	return nil
}

func (s *stubVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func strPtr(v string) *string { return &v }

func TestCreateDefaultsStatusToAvailable(t *testing.T) {
	svc, _ := NewService(newStubVehicleRepo())

	dto, err := svc.Create(context.Background(), uuid.New(), CreateVehicleInput{
		Make:      "Toyota",
		Model:     "Corolla",
		Year:      2022,
		Plate:     "AB-12-CD",
		DailyRate: decimal.NewFromInt(45),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.VehicleStatusAvailable {
		t.Fatalf("status: %s", dto.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := NewService(newStubVehicleRepo())
	companyID := uuid.New()

	cases := []struct {
		name  string
		input CreateVehicleInput
	}{
		{"missing make", CreateVehicleInput{Model: "Corolla", Year: 2022, Plate: "X", DailyRate: decimal.NewFromInt(45)}},
		{"year out of range", CreateVehicleInput{Make: "Toyota", Model: "Corolla", Year: 1900, Plate: "X", DailyRate: decimal.NewFromInt(45)}},
		{"negative rate", CreateVehicleInput{Make: "Toyota", Model: "Corolla", Year: 2022, Plate: "X", DailyRate: decimal.NewFromInt(-1)}},
		{"bad status", CreateVehicleInput{Make: "Toyota", Model: "Corolla", Year: 2022, Plate: "X", DailyRate: decimal.NewFromInt(45), Status: strPtr("scrapped")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), companyID, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdatePreservesOmittedFields(t *testing.T) {
	repo := newStubVehicleRepo()
	svc, _ := NewService(repo)

	owner := uuid.New()
	locationID := uuid.New()
	vehicle := &models.Vehicle{
		ID:         uuid.New(),
		CompanyID:  owner,
		LocationID: &locationID,
		Make:       "Toyota",
		Model:      "Corolla",
		Year:       2022,
		Plate:      "AB-12-CD",
		Status:     enums.VehicleStatusAvailable,
		DailyRate:  decimal.NewFromInt(45),
	}
	repo.byID[vehicle.ID] = vehicle

	status := string(enums.VehicleStatusMaintenance)
	dto, err := svc.Update(context.Background(), owner, vehicle.ID, UpdateVehicleInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Status != enums.VehicleStatusMaintenance {
		t.Fatalf("status: %s", dto.Status)
	}
	if dto.Make != "Toyota" || dto.LocationID == nil || *dto.LocationID != locationID {
		t.Fatalf("omitted fields changed: %+v", dto)
	}
}

func TestUpdateClearsLocation(t *testing.T) {
	repo := newStubVehicleRepo()
	svc, _ := NewService(repo)

	owner := uuid.New()
	locationID := uuid.New()
	vehicle := &models.Vehicle{
		ID:         uuid.New(),
		CompanyID:  owner,
		LocationID: &locationID,
		Make:       "Toyota",
		Model:      "Corolla",
		Year:       2022,
		Plate:      "AB-12-CD",
		Status:     enums.VehicleStatusAvailable,
		DailyRate:  decimal.NewFromInt(45),
	}
	repo.byID[vehicle.ID] = vehicle

	dto, err := svc.Update(context.Background(), owner, vehicle.ID, UpdateVehicleInput{ClearLocation: true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.LocationID != nil {
		t.Fatalf("location should be cleared, got %v", dto.LocationID)
	}
}

func TestCrossTenantAccessLooksLikeNotFound(t *testing.T) {
	repo := newStubVehicleRepo()
	svc, _ := NewService(repo)

	vehicle := &models.Vehicle{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Make:      "Kia",
		Model:     "Rio",
		Year:      2021,
		Plate:     "ZZ-99-ZZ",
		Status:    enums.VehicleStatusAvailable,
		DailyRate: decimal.NewFromInt(30),
	}
	repo.byID[vehicle.ID] = vehicle

	_, err := svc.GetByID(context.Background(), uuid.New(), vehicle.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := svc.Delete(context.Background(), uuid.New(), vehicle.ID); err == nil {
		t.Fatal("cross-tenant delete should fail")
	}
	if _, ok := repo.byID[vehicle.ID]; !ok {
		t.Fatal("vehicle should not have been deleted")
	}
}

func TestDeleteMissingVehicleReturnsNotFound(t *testing.T) {
	svc, _ := NewService(newStubVehicleRepo())
	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
