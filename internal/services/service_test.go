package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

type stubServiceRepo struct {
	services        map[uuid.UUID]*models.AdditionalService
	optIns          map[uuid.UUID]*models.CompanyService
	bookingServices map[uuid.UUID]*models.BookingService
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{
		services:        map[uuid.UUID]*models.AdditionalService{},
		optIns:          map[uuid.UUID]*models.CompanyService{},
		bookingServices: map[uuid.UUID]*models.BookingService{},
	}
}

func (s *stubServiceRepo) ListServices(_ context.Context, _ pagination.Params) ([]models.AdditionalService, int64, error) {
	var rows []models.AdditionalService
	for _, svc := range s.services {
		rows = append(rows, *svc)
	}
	return rows, int64(len(rows)), nil
}

func (s *stubServiceRepo) CreateService(_ context.Context, service *models.AdditionalService) error {
	cpy := *service
	s.services[service.ID] = &cpy
	return nil
}

func (s *stubServiceRepo) FindServiceByID(_ context.Context, id uuid.UUID) (*models.AdditionalService, error) {
	if svc, ok := s.services[id]; ok {
		cpy := *svc
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubServiceRepo) UpdateService(_ context.Context, service *models.AdditionalService) error {
	cpy := *service
	s.services[service.ID] = &cpy
	return nil
}

func (s *stubServiceRepo) DeleteService(_ context.Context, id uuid.UUID) error {
	delete(s.services, id)
	return nil
}

func (s *stubServiceRepo) ListCompanyServices(_ context.Context, companyID uuid.UUID) ([]models.CompanyService, error) {
	var rows []models.CompanyService
	for _, row := range s.optIns {
		if row.CompanyID == companyID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *stubServiceRepo) CreateCompanyService(_ context.Context, row *models.CompanyService) error {
	for _, existing := range s.optIns {
		if existing.CompanyID == row.CompanyID && existing.ServiceID == row.ServiceID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "company_services_company_service_key"}
		}
	}
	cpy := *row
	s.optIns[row.ID] = &cpy
	return nil
}

func (s *stubServiceRepo) FindCompanyServiceByID(_ context.Context, id uuid.UUID) (*models.CompanyService, error) {
	if row, ok := s.optIns[id]; ok {
		cpy := *row
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubServiceRepo) UpdateCompanyService(_ context.Context, row *models.CompanyService) error {
	cpy := *row
	s.optIns[row.ID] = &cpy
	return nil
}

func (s *stubServiceRepo) DeleteCompanyService(_ context.Context, id uuid.UUID) error {
	delete(s.optIns, id)
	return nil
}

func (s *stubServiceRepo) ListBookingServices(_ context.Context, bookingID uuid.UUID) ([]models.BookingService, error) {
	var rows []models.BookingService
	for _, row := range s.bookingServices {
		if row.BookingID == bookingID {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

func (s *stubServiceRepo) CreateBookingService(_ context.Context, row *models.BookingService) error {
	cpy := *row
	s.bookingServices[row.ID] = &cpy
	return nil
}

func (s *stubServiceRepo) FindBookingServiceByID(_ context.Context, id uuid.UUID) (*models.BookingService, error) {
	if row, ok := s.bookingServices[id]; ok {
		cpy := *row
		return &cpy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubServiceRepo) UpdateBookingService(_ context.Context, row *models.BookingService) error {
	cpy := *row
	s.bookingServices[row.ID] = &cpy
	return nil
}

func (s *stubServiceRepo) DeleteBookingService(_ context.Context, id uuid.UUID) error {
	delete(s.bookingServices, id)
	return nil
}

func seedAddon(repo *stubServiceRepo, price int64, maxQuantity int) *models.AdditionalService {
	addon := &models.AdditionalService{
		ID:          uuid.New(),
		Name:        "Child seat",
		Price:       decimal.NewFromInt(price),
		MaxQuantity: maxQuantity,
		Active:      true,
	}
	repo.services[addon.ID] = addon
	return addon
}

func TestAttachSnapshotsPriceAndSubtotal(t *testing.T) {
	repo := newStubServiceRepo()
	addon := seedAddon(repo, 12, 3)
	svc, _ := NewService(repo)

	dto, err := svc.AttachToBooking(context.Background(), uuid.New(), addon.ID, 3)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !dto.PriceAtBooking.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("price at booking: %v", dto.PriceAtBooking)
	}
	if !dto.Subtotal.Equal(decimal.NewFromInt(36)) {
		t.Fatalf("subtotal: %v", dto.Subtotal)
	}

	// later catalog price changes must not reprice the snapshot
	addon.Price = decimal.NewFromInt(99)
	updated, err := svc.UpdateQuantity(context.Background(), dto.ID, 2)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if !updated.Subtotal.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("subtotal after quantity change: %v", updated.Subtotal)
	}
}

func TestAttachRejectsOverMaxQuantity(t *testing.T) {
	repo := newStubServiceRepo()
	addon := seedAddon(repo, 12, 2)
	svc, _ := NewService(repo)

	_, err := svc.AttachToBooking(context.Background(), uuid.New(), addon.ID, 3)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.bookingServices) != 0 {
		t.Fatal("no snapshot should have been written")
	}
}

func TestUpdateQuantityOverMaxLeavesStateUnchanged(t *testing.T) {
	repo := newStubServiceRepo()
	addon := seedAddon(repo, 10, 2)
	svc, _ := NewService(repo)

	dto, err := svc.AttachToBooking(context.Background(), uuid.New(), addon.ID, 1)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	_, err = svc.UpdateQuantity(context.Background(), dto.ID, 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored := repo.bookingServices[dto.ID]
	if stored.Quantity != 1 || !stored.Subtotal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("state changed on rejected update: %+v", stored)
	}
}

func TestDuplicateOptInIsConflict(t *testing.T) {
	repo := newStubServiceRepo()
	addon := seedAddon(repo, 12, 2)
	svc, _ := NewService(repo)

	companyID := uuid.New()
	if _, err := svc.OptIn(context.Background(), companyID, addon.ID); err != nil {
		t.Fatalf("first opt-in: %v", err)
	}

	_, err := svc.OptIn(context.Background(), companyID, addon.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestOptOutScopedByCompany(t *testing.T) {
	repo := newStubServiceRepo()
	addon := seedAddon(repo, 12, 2)
	svc, _ := NewService(repo)

	companyID := uuid.New()
	optIn, err := svc.OptIn(context.Background(), companyID, addon.ID)
	if err != nil {
		t.Fatalf("opt-in: %v", err)
	}

	if err := svc.OptOut(context.Background(), uuid.New(), optIn.ID); err == nil {
		t.Fatal("cross-tenant opt-out should fail")
	}
	if err := svc.OptOut(context.Background(), companyID, optIn.ID); err != nil {
		t.Fatalf("opt-out: %v", err)
	}
}

func TestDeleteMissingServiceReturnsNotFound(t *testing.T) {
	svc, _ := NewService(newStubServiceRepo())
	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
