package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
	pkgerrors "github.com/fleetdesk/fleetdesk-backend/pkg/errors"
)

// untenantedListCap bounds the grouped listing when no tenant is given.
// Kept from the original product behavior; large catalogs paginate instead.
const untenantedListCap = 1000

type catalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListModels(ctx context.Context, filter ModelFilter, limit int) ([]models.CatalogModel, error)
	CreateModel(ctx context.Context, model *models.CatalogModel) error
	FindModelByID(ctx context.Context, id uuid.UUID) (*models.CatalogModel, error)
	UpdateModel(ctx context.Context, model *models.CatalogModel) error
	DeleteModel(ctx context.Context, id uuid.UUID) error

	ListOverrides(ctx context.Context, companyID uuid.UUID) ([]models.VehicleModel, error)
	UpsertOverrides(ctx context.Context, overrides []models.VehicleModel) error
	ListCompanyVehicles(ctx context.Context, companyID uuid.UUID) ([]models.Vehicle, error)
}

// Service exposes the global catalog with per-tenant rate overlays.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, name string, sortOrder int) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name *string, sortOrder *int) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateModel(ctx context.Context, input CreateModelInput) (*ModelDTO, error)
	UpdateModel(ctx context.Context, id uuid.UUID, input UpdateModelInput) (*ModelDTO, error)
	DeleteModel(ctx context.Context, id uuid.UUID) error

	ListGroupedByCategory(ctx context.Context, companyID *uuid.UUID) ([]GroupedCategoryDTO, error)
	BulkUpdateDailyRate(ctx context.Context, companyID uuid.UUID, filter ModelFilter, rate decimal.Decimal) (int, error)
}

type service struct {
	repo catalogRepository
	now  func() time.Time
}

// NewService builds a catalog service with the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// CreateModelInput captures the fields accepted at model creation.
type CreateModelInput struct {
	CategoryID    uuid.UUID
	Make          string
	Model         string
	Year          int
	Seats         int
	Transmission  *string
	BaseDailyRate decimal.Decimal
	ImageURL      *string
}

// UpdateModelInput captures the allowed model fields for mutation.
type UpdateModelInput struct {
	CategoryID    *uuid.UUID
	Make          *string
	Model         *string
	Year          *int
	Seats         *int
	Transmission  *string
	BaseDailyRate *decimal.Decimal
	ImageURL      *string
}

// tripleKey is the normalized (make, model, year) identity used to match
// vehicles to catalog rows. Matching is by value equality, not foreign key.
type tripleKey struct {
	make_ string
	model string
	year  int
}

func normalizeTriple(make_, model string, year int) tripleKey {
	return tripleKey{
		make_: strings.ToLower(strings.TrimSpace(make_)),
		model: strings.ToLower(strings.TrimSpace(model)),
		year:  year,
	}
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *CategoryFromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) CreateCategory(ctx context.Context, name string, sortOrder int) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{ID: uuid.New(), Name: name, SortOrder: sortOrder}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if pkgerrors.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, name *string, sortOrder *int) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "category")
	}

	if name != nil {
		value := strings.TrimSpace(*name)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		category.Name = value
	}
	if sortOrder != nil {
		category.SortOrder = *sortOrder
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if pkgerrors.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) CreateModel(ctx context.Context, input CreateModelInput) (*ModelDTO, error) {
	make_ := strings.TrimSpace(input.Make)
	model := strings.TrimSpace(input.Model)
	switch {
	case make_ == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model make is required")
	case model == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model name is required")
	case input.BaseDailyRate.IsNegative():
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base daily rate cannot be negative")
	}

	if _, err := s.repo.FindCategoryByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundOrDependency(err, "category")
	}

	seats := input.Seats
	if seats <= 0 {
		seats = 5
	}
	row := &models.CatalogModel{
		ID:            uuid.New(),
		CategoryID:    input.CategoryID,
		Make:          make_,
		Model:         model,
		Year:          input.Year,
		Seats:         seats,
		Transmission:  input.Transmission,
		BaseDailyRate: input.BaseDailyRate,
		ImageURL:      input.ImageURL,
	}
	if err := s.repo.CreateModel(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create model")
	}
	return ModelFromModel(row), nil
}

func (s *service) UpdateModel(ctx context.Context, id uuid.UUID, input UpdateModelInput) (*ModelDTO, error) {
	row, err := s.repo.FindModelByID(ctx, id)
	if err != nil {
		return nil, notFoundOrDependency(err, "model")
	}

	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			return nil, notFoundOrDependency(err, "category")
		}
		row.CategoryID = *input.CategoryID
	}
	if input.Make != nil {
		value := strings.TrimSpace(*input.Make)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model make cannot be empty")
		}
		row.Make = value
	}
	if input.Model != nil {
		value := strings.TrimSpace(*input.Model)
		if value == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model name cannot be empty")
		}
		row.Model = value
	}
	if input.Year != nil {
		row.Year = *input.Year
	}
	if input.Seats != nil && *input.Seats > 0 {
		row.Seats = *input.Seats
	}
	if input.Transmission != nil {
		row.Transmission = input.Transmission
	}
	if input.BaseDailyRate != nil {
		if input.BaseDailyRate.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base daily rate cannot be negative")
		}
		row.BaseDailyRate = *input.BaseDailyRate
	}
	if input.ImageURL != nil {
		row.ImageURL = input.ImageURL
	}

	if err := s.repo.UpdateModel(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update model")
	}
	return ModelFromModel(row), nil
}

func (s *service) DeleteModel(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindModelByID(ctx, id); err != nil {
		return notFoundOrDependency(err, "model")
	}
	if err := s.repo.DeleteModel(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete model")
	}
	return nil
}

// ListGroupedByCategory returns the catalog grouped by category. With a tenant
// the catalog is filtered to models matching the tenant's fleet by normalized
// (make, model, year) and decorated with override rates and vehicle counts.
// Without a tenant the full catalog is returned, capped.
func (s *service) ListGroupedByCategory(ctx context.Context, companyID *uuid.UUID) ([]GroupedCategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	limit := untenantedListCap
	if companyID != nil {
		limit = 0
	}
	catalogRows, err := s.repo.ListModels(ctx, ModelFilter{}, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list models")
	}

	var (
		fleetCounts map[tripleKey]fleetCount
		overrides   map[uuid.UUID]decimal.Decimal
	)
	if companyID != nil {
		fleetCounts, err = s.collectFleetCounts(ctx, *companyID)
		if err != nil {
			return nil, err
		}
		overrides, err = s.collectOverrides(ctx, *companyID)
		if err != nil {
			return nil, err
		}
	}

	modelsByCategory := make(map[uuid.UUID][]GroupedModelDTO)
	for i := range catalogRows {
		row := &catalogRows[i]

		entry := GroupedModelDTO{ModelDTO: *ModelFromModel(row)}
		if companyID != nil {
			counts, matched := fleetCounts[normalizeTriple(row.Make, row.Model, row.Year)]
			if !matched {
				// tenant view only shows models the fleet actually has
				continue
			}
			entry.VehicleCount = counts.total
			entry.AvailableCount = counts.available
			if rate, ok := overrides[row.ID]; ok {
				entry.OverrideDailyRate = &rate
			}
		}
		modelsByCategory[row.CategoryID] = append(modelsByCategory[row.CategoryID], entry)
	}

	grouped := make([]GroupedCategoryDTO, 0, len(categories))
	for i := range categories {
		entries, ok := modelsByCategory[categories[i].ID]
		if !ok {
			continue
		}
		grouped = append(grouped, GroupedCategoryDTO{
			Category: *CategoryFromModel(&categories[i]),
			Models:   entries,
		})
	}
	return grouped, nil
}

type fleetCount struct {
	total     int
	available int
}

func (s *service) collectFleetCounts(ctx context.Context, companyID uuid.UUID) (map[tripleKey]fleetCount, error) {
	vehicles, err := s.repo.ListCompanyVehicles(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list company vehicles")
	}
	counts := make(map[tripleKey]fleetCount, len(vehicles))
	for i := range vehicles {
		key := normalizeTriple(vehicles[i].Make, vehicles[i].Model, vehicles[i].Year)
		entry := counts[key]
		entry.total++
		if vehicles[i].Status == enums.VehicleStatusAvailable {
			entry.available++
		}
		counts[key] = entry
	}
	return counts, nil
}

func (s *service) collectOverrides(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	rows, err := s.repo.ListOverrides(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rate overrides")
	}
	overrides := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for i := range rows {
		overrides[rows[i].ModelID] = rows[i].DailyRate
	}
	return overrides, nil
}

// BulkUpdateDailyRate upserts a tenant rate override onto every catalog model
// matching the filter. Returns the number of affected models.
func (s *service) BulkUpdateDailyRate(ctx context.Context, companyID uuid.UUID, filter ModelFilter, rate decimal.Decimal) (int, error) {
	if companyID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "companyId is required")
	}
	if rate.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "daily rate cannot be negative")
	}

	matched, err := s.repo.ListModels(ctx, filter, 0)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list models")
	}
	if len(matched) == 0 {
		return 0, nil
	}

	now := s.now()
	overrides := make([]models.VehicleModel, 0, len(matched))
	for i := range matched {
		overrides = append(overrides, models.VehicleModel{
			ID:        uuid.New(),
			CompanyID: companyID,
			ModelID:   matched[i].ID,
			DailyRate: rate,
			UpdatedAt: now,
		})
	}
	if err := s.repo.UpsertOverrides(ctx, overrides); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert rate overrides")
	}
	return len(overrides), nil
}

func notFoundOrDependency(err error, noun string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, noun+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+noun)
}
