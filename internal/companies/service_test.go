package companies

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
	"github.com/fleetdesk/fleetdesk-backend/pkg/redis"
)

type stubCompanyRepo struct {
	byID        map[uuid.UUID]*models.Company
	bySubdomain map[string]*models.Company
	createErr   error
	updateCalls int
}

func newStubCompanyRepo() *stubCompanyRepo {
	return &stubCompanyRepo{
		byID:        map[uuid.UUID]*models.Company{},
		bySubdomain: map[string]*models.Company{},
	}
}

func (s *stubCompanyRepo) add(company *models.Company) {
	s.byID[company.ID] = company
	if company.Subdomain != nil {
		s.bySubdomain[*company.Subdomain] = company
	}
}

func (s *stubCompanyRepo) Create(_ context.Context, dto CreateCompanyDTO) (*models.Company, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	company := dto.ToModel()
	company.ID = uuid.New()
	s.add(company)
	return company, nil
}

func (s *stubCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	if company, ok := s.byID[id]; ok {
		return company, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCompanyRepo) FindBySubdomain(_ context.Context, subdomain string) (*models.Company, error) {
	if company, ok := s.bySubdomain[subdomain]; ok {
		return company, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCompanyRepo) List(_ context.Context, filter ListFilter, _ pagination.Params) ([]models.Company, int64, error) {
	var all []models.Company
	for _, c := range s.byID {
		if filter.Active != nil && c.Active != *filter.Active {
			continue
		}
		all = append(all, *c)
	}
	return all, int64(len(all)), nil
}

func (s *stubCompanyRepo) Update(_ context.Context, company *models.Company) error {
	s.updateCalls++
	s.add(company)
	return nil
}

type stubConfigCache struct {
	entries     map[string]*ConfigDTO
	invalidated []string
}

func newStubConfigCache() *stubConfigCache {
	return &stubConfigCache{entries: map[string]*ConfigDTO{}}
}

func (s *stubConfigCache) Get(_ context.Context, key string, dst any) error {
	entry, ok := s.entries[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	*(dst.(*ConfigDTO)) = *entry
	return nil
}

func (s *stubConfigCache) Set(_ context.Context, key string, value any) error {
	cfg := value.(*ConfigDTO)
	cpy := *cfg
	s.entries[key] = &cpy
	return nil
}

func (s *stubConfigCache) Invalidate(_ context.Context, key string) error {
	delete(s.entries, key)
	s.invalidated = append(s.invalidated, key)
	return nil
}

func strPtr(v string) *string { return &v }

func TestCreateNormalizesSubdomain(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateCompanyInput{
		Name:      "Acme Rentals",
		Subdomain: strPtr("  Acme-Cars "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Subdomain == nil || *dto.Subdomain != "acme-cars" {
		t.Fatalf("subdomain: %v", dto.Subdomain)
	}
	if dto.Currency != "usd" {
		t.Fatalf("currency default: %s", dto.Currency)
	}
}

func TestCreateRejectsBadSubdomain(t *testing.T) {
	svc, _ := NewService(newStubCompanyRepo(), nil)
	_, err := svc.Create(context.Background(), CreateCompanyInput{
		Name:      "Acme",
		Subdomain: strPtr("has spaces!"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfigBySubdomainCachesResult(t *testing.T) {
	repo := newStubCompanyRepo()
	cache := newStubConfigCache()
	svc, _ := NewService(repo, cache)

	company := &models.Company{
		ID:        uuid.New(),
		Name:      "Acme Rentals",
		Subdomain: strPtr("acme"),
		Currency:  "usd",
		Active:    true,
	}
	repo.add(company)

	cfg, err := svc.ConfigBySubdomain(context.Background(), "ACME ")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Name != "Acme Rentals" {
		t.Fatalf("name: %s", cfg.Name)
	}
	if _, ok := cache.entries["acme"]; !ok {
		t.Fatal("expected config to be cached under the normalized subdomain")
	}

	// served from cache even if the row disappears
	delete(repo.bySubdomain, "acme")
	cfg, err = svc.ConfigBySubdomain(context.Background(), "acme")
	if err != nil {
		t.Fatalf("cached config: %v", err)
	}
	if cfg.ID != company.ID {
		t.Fatalf("cached id: %s", cfg.ID)
	}
}

func TestConfigBySubdomainHidesInactiveCompanies(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, _ := NewService(repo, nil)

	repo.add(&models.Company{
		ID:        uuid.New(),
		Name:      "Gone Rentals",
		Subdomain: strPtr("gone"),
		Active:    false,
	})

	_, err := svc.ConfigBySubdomain(context.Background(), "gone")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateEvictsOldAndNewSubdomainKeys(t *testing.T) {
	repo := newStubCompanyRepo()
	cache := newStubConfigCache()
	svc, _ := NewService(repo, cache)

	company := &models.Company{
		ID:        uuid.New(),
		Name:      "Acme Rentals",
		Subdomain: strPtr("acme"),
		Currency:  "usd",
		Active:    true,
	}
	repo.add(company)
	cache.entries["acme"] = &ConfigDTO{ID: company.ID, Subdomain: "acme"}

	_, err := svc.Update(context.Background(), company.ID, UpdateCompanyInput{
		Subdomain: strPtr("acme-cars"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, ok := cache.entries["acme"]; ok {
		t.Fatal("old subdomain entry should be evicted")
	}
	found := false
	for _, key := range cache.invalidated {
		if key == "acme" {
			found = true
		}
	}
	if !found {
		t.Fatalf("invalidated keys: %v", cache.invalidated)
	}
}

func TestSetActiveTogglesDeactivatedAt(t *testing.T) {
	repo := newStubCompanyRepo()
	svc, _ := NewService(repo, nil)

	company := &models.Company{ID: uuid.New(), Name: "Acme", Active: true}
	repo.add(company)

	dto, err := svc.SetActive(context.Background(), company.ID, false)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if dto.Active || dto.DeactivatedAt == nil {
		t.Fatalf("deactivate result: %+v", dto)
	}

	dto, err = svc.SetActive(context.Background(), company.ID, true)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !dto.Active || dto.DeactivatedAt != nil {
		t.Fatalf("reactivate result: %+v", dto)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := NewService(newStubCompanyRepo(), nil)
	_, err := svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
