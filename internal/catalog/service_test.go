package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
)

type stubCatalogRepo struct {
	categories []models.Category
	models     []models.CatalogModel
	overrides  []models.VehicleModel
	vehicles   []models.Vehicle

	upsertCalls int
}

func (s *stubCatalogRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return s.categories, nil
}

func (s *stubCatalogRepo) CreateCategory(_ context.Context, category *models.Category) error {
	s.categories = append(s.categories, *category)
	return nil
}

func (s *stubCatalogRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == id {
			cpy := s.categories[i]
			return &cpy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) UpdateCategory(_ context.Context, category *models.Category) error {
	for i := range s.categories {
		if s.categories[i].ID == category.ID {
			s.categories[i] = *category
		}
	}
	return nil
}

func (s *stubCatalogRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return nil
}

func (s *stubCatalogRepo) ListModels(_ context.Context, filter ModelFilter, limit int) ([]models.CatalogModel, error) {
	var rows []models.CatalogModel
	for _, m := range s.models {
		if filter.CategoryID != nil && m.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Make != "" && !strings.EqualFold(strings.TrimSpace(filter.Make), m.Make) {
			continue
		}
		if filter.Model != "" && !strings.EqualFold(strings.TrimSpace(filter.Model), m.Model) {
			continue
		}
		if filter.Year != nil && m.Year != *filter.Year {
			continue
		}
		rows = append(rows, m)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

func (s *stubCatalogRepo) CreateModel(_ context.Context, model *models.CatalogModel) error {
	s.models = append(s.models, *model)
	return nil
}

func (s *stubCatalogRepo) FindModelByID(_ context.Context, id uuid.UUID) (*models.CatalogModel, error) {
	for i := range s.models {
		if s.models[i].ID == id {
			cpy := s.models[i]
			return &cpy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) UpdateModel(_ context.Context, model *models.CatalogModel) error {
	for i := range s.models {
		if s.models[i].ID == model.ID {
			s.models[i] = *model
		}
	}
	return nil
}

func (s *stubCatalogRepo) DeleteModel(_ context.Context, id uuid.UUID) error {
	kept := s.models[:0]
	for _, m := range s.models {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.models = kept
	return nil
}

func (s *stubCatalogRepo) ListOverrides(_ context.Context, companyID uuid.UUID) ([]models.VehicleModel, error) {
	var rows []models.VehicleModel
	for _, o := range s.overrides {
		if o.CompanyID == companyID {
			rows = append(rows, o)
		}
	}
	return rows, nil
}

func (s *stubCatalogRepo) UpsertOverrides(_ context.Context, overrides []models.VehicleModel) error {
	s.upsertCalls++
	s.overrides = append(s.overrides, overrides...)
	return nil
}

func (s *stubCatalogRepo) ListCompanyVehicles(_ context.Context, companyID uuid.UUID) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	for _, v := range s.vehicles {
		if v.CompanyID == companyID {
			rows = append(rows, v)
		}
	}
	return rows, nil
}

func seedCatalog(repo *stubCatalogRepo) (suv models.Category, corolla, rav4 models.CatalogModel) {
	suv = models.Category{ID: uuid.New(), Name: "SUV", SortOrder: 1}
	sedan := models.Category{ID: uuid.New(), Name: "Sedan", SortOrder: 2}
	repo.categories = []models.Category{suv, sedan}

	corolla = models.CatalogModel{
		ID: uuid.New(), CategoryID: sedan.ID,
		Make: "Toyota", Model: "Corolla", Year: 2022, Seats: 5,
		BaseDailyRate: decimal.NewFromInt(40),
	}
	rav4 = models.CatalogModel{
		ID: uuid.New(), CategoryID: suv.ID,
		Make: "Toyota", Model: "RAV4", Year: 2023, Seats: 5,
		BaseDailyRate: decimal.NewFromInt(65),
	}
	repo.models = []models.CatalogModel{corolla, rav4}
	return suv, corolla, rav4
}

func TestGroupedListingMatchesFleetByNormalizedTriple(t *testing.T) {
	repo := &stubCatalogRepo{}
	_, corolla, _ := seedCatalog(repo)
	svc, _ := NewService(repo)

	companyID := uuid.New()
	repo.vehicles = []models.Vehicle{
		{ID: uuid.New(), CompanyID: companyID, Make: "  toyota ", Model: "COROLLA", Year: 2022, Status: enums.VehicleStatusAvailable},
		{ID: uuid.New(), CompanyID: companyID, Make: "Toyota", Model: "Corolla", Year: 2022, Status: enums.VehicleStatusRented},
	}
	repo.overrides = []models.VehicleModel{
		{ID: uuid.New(), CompanyID: companyID, ModelID: corolla.ID, DailyRate: decimal.NewFromInt(35)},
	}

	grouped, err := svc.ListGroupedByCategory(context.Background(), &companyID)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(grouped) != 1 {
		t.Fatalf("expected only the sedan group, got %d groups", len(grouped))
	}
	if len(grouped[0].Models) != 1 {
		t.Fatalf("models in group: %d", len(grouped[0].Models))
	}

	entry := grouped[0].Models[0]
	if entry.ID != corolla.ID {
		t.Fatalf("matched model: %s", entry.ID)
	}
	if entry.VehicleCount != 2 || entry.AvailableCount != 1 {
		t.Fatalf("counts: total=%d available=%d", entry.VehicleCount, entry.AvailableCount)
	}
	if entry.OverrideDailyRate == nil || !entry.OverrideDailyRate.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("override rate: %v", entry.OverrideDailyRate)
	}
	if !entry.BaseDailyRate.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("base rate: %v", entry.BaseDailyRate)
	}
}

func TestGroupedListingEmptyFleetIsEmptyNotError(t *testing.T) {
	repo := &stubCatalogRepo{}
	seedCatalog(repo)
	svc, _ := NewService(repo)

	companyID := uuid.New()
	grouped, err := svc.ListGroupedByCategory(context.Background(), &companyID)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(grouped) != 0 {
		t.Fatalf("expected empty listing, got %d groups", len(grouped))
	}
}

func TestGroupedListingWithoutTenantReturnsFullCatalog(t *testing.T) {
	repo := &stubCatalogRepo{}
	seedCatalog(repo)
	svc, _ := NewService(repo)

	grouped, err := svc.ListGroupedByCategory(context.Background(), nil)
	if err != nil {
		t.Fatalf("grouped: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("groups: %d", len(grouped))
	}
	for _, group := range grouped {
		for _, entry := range group.Models {
			if entry.OverrideDailyRate != nil || entry.VehicleCount != 0 {
				t.Fatalf("untenanted entry should carry no overlay: %+v", entry)
			}
		}
	}
}

func TestBulkUpdateDailyRate(t *testing.T) {
	repo := &stubCatalogRepo{}
	seedCatalog(repo)
	svc, _ := NewService(repo)

	companyID := uuid.New()
	year := 2022
	affected, err := svc.BulkUpdateDailyRate(context.Background(), companyID, ModelFilter{
		Make: "toyota",
		Year: &year,
	}, decimal.NewFromInt(38))
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected: %d", affected)
	}
	if repo.upsertCalls != 1 {
		t.Fatalf("upsert calls: %d", repo.upsertCalls)
	}
	if len(repo.overrides) != 1 || !repo.overrides[0].DailyRate.Equal(decimal.NewFromInt(38)) {
		t.Fatalf("overrides: %+v", repo.overrides)
	}
}

func TestBulkUpdateRequiresCompany(t *testing.T) {
	repo := &stubCatalogRepo{}
	seedCatalog(repo)
	svc, _ := NewService(repo)

	_, err := svc.BulkUpdateDailyRate(context.Background(), uuid.Nil, ModelFilter{}, decimal.NewFromInt(38))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.upsertCalls != 0 {
		t.Fatalf("upsert should not run: %d", repo.upsertCalls)
	}
}

func TestBulkUpdateNoMatchesIsZeroNotError(t *testing.T) {
	repo := &stubCatalogRepo{}
	seedCatalog(repo)
	svc, _ := NewService(repo)

	affected, err := svc.BulkUpdateDailyRate(context.Background(), uuid.New(), ModelFilter{
		Make: "Lada",
	}, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if affected != 0 || repo.upsertCalls != 0 {
		t.Fatalf("affected=%d upserts=%d", affected, repo.upsertCalls)
	}
}

func TestCreateModelRequiresExistingCategory(t *testing.T) {
	repo := &stubCatalogRepo{}
	svc, _ := NewService(repo)

	_, err := svc.CreateModel(context.Background(), CreateModelInput{
		CategoryID:    uuid.New(),
		Make:          "Toyota",
		Model:         "Yaris",
		Year:          2021,
		BaseDailyRate: decimal.NewFromInt(30),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
