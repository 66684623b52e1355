package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
)

// Repository handles catalog persistence: categories, global models and
// per-company rate overrides.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ModelFilter narrows catalog model queries.
type ModelFilter struct {
	CategoryID *uuid.UUID
	Make       string
	Model      string
	Year       *int
}

func (r *Repository) applyModelFilter(query *gorm.DB, filter ModelFilter) *gorm.DB {
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if make_ := strings.TrimSpace(filter.Make); make_ != "" {
		query = query.Where("LOWER(make) = ?", strings.ToLower(make_))
	}
	if model := strings.TrimSpace(filter.Model); model != "" {
		query = query.Where("LOWER(model) = ?", strings.ToLower(model))
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}
	return query
}

// ListCategories returns all categories in display order.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory persists a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.db.WithContext(ctx).Create(category).Error
}

// FindCategoryByID loads a category by its UUID.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory saves the provided category.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes the category row.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// ListModels returns catalog models matching the filter, up to limit rows.
// A limit of zero means no cap.
func (r *Repository) ListModels(ctx context.Context, filter ModelFilter, limit int) ([]models.CatalogModel, error) {
	query := r.applyModelFilter(r.db.WithContext(ctx).Model(&models.CatalogModel{}), filter).
		Order("make ASC, model ASC, year DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.CatalogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateModel persists a new catalog model row.
func (r *Repository) CreateModel(ctx context.Context, model *models.CatalogModel) error {
	if model == nil {
		return fmt.Errorf("model is required")
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindModelByID loads a catalog model by its UUID.
func (r *Repository) FindModelByID(ctx context.Context, id uuid.UUID) (*models.CatalogModel, error) {
	var model models.CatalogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// UpdateModel saves the provided catalog model.
func (r *Repository) UpdateModel(ctx context.Context, model *models.CatalogModel) error {
	if model == nil {
		return fmt.Errorf("model is required")
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteModel removes the catalog model and any company overrides for it.
func (r *Repository) DeleteModel(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("model_id = ?", id).
		Delete(&models.VehicleModel{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CatalogModel{}).Error
}

// ListOverrides returns all rate override rows for one company.
func (r *Repository) ListOverrides(ctx context.Context, companyID uuid.UUID) ([]models.VehicleModel, error) {
	var overrides []models.VehicleModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// UpsertOverrides writes override rows in one statement, updating the rate on
// (company_id, model_id) collisions.
func (r *Repository) UpsertOverrides(ctx context.Context, overrides []models.VehicleModel) error {
	if len(overrides) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}, {Name: "model_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_rate", "updated_at"}),
		}).
		Create(&overrides).Error
}

// ListCompanyVehicles returns the company's fleet for in-memory triple matching.
func (r *Repository) ListCompanyVehicles(ctx context.Context, companyID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}
