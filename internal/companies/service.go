package companies

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
	"github.com/fleetdesk/fleetdesk-backend/pkg/redis"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

type companyRepository interface {
	Create(ctx context.Context, dto CreateCompanyDTO) (*models.Company, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Company, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Company, int64, error)
	Update(ctx context.Context, company *models.Company) error
}

type configCache interface {
	Get(ctx context.Context, companyID string, dst any) error
	Set(ctx context.Context, companyID string, value any) error
	Invalidate(ctx context.Context, companyID string) error
}

// Service exposes tenant operations.
type Service interface {
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]CompanyDTO, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error)
	Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*CompanyDTO, error)
	ConfigBySubdomain(ctx context.Context, subdomain string) (*ConfigDTO, error)
	ConfigByID(ctx context.Context, id uuid.UUID) (*ConfigDTO, error)
	InvalidateConfig(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  companyRepository
	cache configCache
	now   func() time.Time
}

// NewService builds a company service with the provided repository and cache.
// The cache may be nil; config lookups then always hit the database.
func NewService(repo companyRepository, cache configCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("company repository required")
	}
	return &service{repo: repo, cache: cache, now: time.Now}, nil
}

// CreateCompanyInput captures the fields accepted at tenant creation.
type CreateCompanyInput struct {
	Name       string
	Email      *string
	Phone      *string
	Domain     *string
	Subdomain  *string
	BrandColor *string
	Currency   *string
}

// UpdateCompanyInput captures the allowed company fields for mutation.
type UpdateCompanyInput struct {
	Name       *string
	Email      *string
	Phone      *string
	Domain     *string
	Subdomain  *string
	BrandColor *string
	Currency   *string
	LogoURL    *string
	BannerURL  *string
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]CompanyDTO, int64, error) {
	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list companies")
	}
	dtos := make([]CompanyDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, total, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CompanyDTO, error) {
	company, err := s.loadCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(company), nil
}

func (s *service) Create(ctx context.Context, input CreateCompanyInput) (*CompanyDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name is required")
	}

	subdomain, err := normalizeSubdomain(input.Subdomain)
	if err != nil {
		return nil, err
	}

	company, err := s.repo.Create(ctx, CreateCompanyDTO{
		Name:       name,
		Email:      input.Email,
		Phone:      input.Phone,
		Domain:     input.Domain,
		Subdomain:  subdomain,
		BrandColor: input.BrandColor,
		Currency:   input.Currency,
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err, "companies_subdomain_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "subdomain already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
	}
	return FromModel(company), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCompanyInput) (*CompanyDTO, error) {
	company, err := s.loadCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	// a subdomain change must also evict the entry under the old key
	previousSubdomain := company.Subdomain

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company name cannot be empty")
		}
		company.Name = name
	}
	if input.Email != nil {
		company.Email = input.Email
	}
	if input.Phone != nil {
		company.Phone = input.Phone
	}
	if input.Domain != nil {
		company.Domain = input.Domain
	}
	if input.Subdomain != nil {
		subdomain, err := normalizeSubdomain(input.Subdomain)
		if err != nil {
			return nil, err
		}
		company.Subdomain = subdomain
	}
	if input.BrandColor != nil {
		company.BrandColor = input.BrandColor
	}
	if input.Currency != nil && *input.Currency != "" {
		company.Currency = strings.ToLower(*input.Currency)
	}
	if input.LogoURL != nil {
		company.LogoURL = input.LogoURL
	}
	if input.BannerURL != nil {
		company.BannerURL = input.BannerURL
	}

	if err := s.repo.Update(ctx, company); err != nil {
		if pkgerrors.IsUniqueViolation(err, "companies_subdomain_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "subdomain already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
	}

	s.dropCachedConfig(ctx, company)
	if s.cache != nil && previousSubdomain != nil &&
		(company.Subdomain == nil || *previousSubdomain != *company.Subdomain) {
		_ = s.cache.Invalidate(ctx, *previousSubdomain)
	}
	return FromModel(company), nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CompanyDTO, error) {
	company, err := s.loadCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	if company.Active == active {
		return FromModel(company), nil
	}

	company.Active = active
	if active {
		company.DeactivatedAt = nil
	} else {
		now := s.now()
		company.DeactivatedAt = &now
	}

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update company")
	}

	s.dropCachedConfig(ctx, company)
	return FromModel(company), nil
}

// ConfigBySubdomain resolves public branding config. The cache is keyed by
// subdomain so warm lookups skip the database entirely. Deactivated tenants
// resolve as not found.
func (s *service) ConfigBySubdomain(ctx context.Context, subdomain string) (*ConfigDTO, error) {
	normalized := strings.ToLower(strings.TrimSpace(subdomain))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subdomain is required")
	}

	if s.cache != nil {
		var cached ConfigDTO
		err := s.cache.Get(ctx, normalized, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			// cache trouble is not fatal, fall through to the DB copy
			_ = err
		}
	}

	company, err := s.repo.FindBySubdomain(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}

	if !company.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
	}

	config := ConfigFromModel(company)
	if s.cache != nil {
		_ = s.cache.Set(ctx, normalized, config)
	}
	return config, nil
}

// ConfigByID resolves config by tenant id. Tenants with a subdomain go
// through the subdomain cache path so both routes share one cached entry.
func (s *service) ConfigByID(ctx context.Context, id uuid.UUID) (*ConfigDTO, error) {
	company, err := s.loadCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
	}
	if company.Subdomain != nil {
		return s.ConfigBySubdomain(ctx, *company.Subdomain)
	}
	return ConfigFromModel(company), nil
}

func (s *service) InvalidateConfig(ctx context.Context, id uuid.UUID) error {
	company, err := s.loadCompany(ctx, id)
	if err != nil {
		return err
	}
	if s.cache == nil || company.Subdomain == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, *company.Subdomain); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate company config")
	}
	return nil
}

func (s *service) loadCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "company not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
	}
	return company, nil
}

func (s *service) dropCachedConfig(ctx context.Context, company *models.Company) {
	if s.cache == nil || company == nil || company.Subdomain == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, *company.Subdomain)
}

func normalizeSubdomain(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*raw))
	if normalized == "" {
		return nil, nil
	}
	if !subdomainPattern.MatchString(normalized) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subdomain must be lowercase alphanumeric with hyphens")
	}
	return &normalized, nil
}
