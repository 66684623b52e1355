package companies

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles company persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to company operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new company row.
func (r *Repository) Create(ctx context.Context, dto CreateCompanyDTO) (*models.Company, error) {
	company := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// FindByID loads a company by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// FindBySubdomain loads a company by its normalized subdomain.
func (r *Repository) FindBySubdomain(ctx context.Context, subdomain string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("subdomain = ?", strings.ToLower(strings.TrimSpace(subdomain))).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// ListFilter narrows the company listing.
type ListFilter struct {
	Active *bool
	Name   string
}

// List returns one page of companies plus the total row count. Ordering is by
// name so pages stay stable across requests.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Company{})
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []models.Company
	if err := query.
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// Update saves the provided company.
func (r *Repository) Update(ctx context.Context, company *models.Company) error {
	if company == nil {
		return fmt.Errorf("company is required")
	}
	return r.db.WithContext(ctx).Save(company).Error
}
