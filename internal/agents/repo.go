package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles agent account persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to agent operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new agent account.
func (r *Repository) Create(ctx context.Context, agent *models.AegisUser) error {
	if agent == nil {
		return fmt.Errorf("agent is required")
	}
	return r.db.WithContext(ctx).Create(agent).Error
}

// FindByID loads an agent account by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AegisUser, error) {
	var agent models.AegisUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByEmail loads an agent account by its lowercased email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AegisUser, error) {
	var agent models.AegisUser
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

// List returns one page of agent accounts, optionally scoped to a company.
func (r *Repository) List(ctx context.Context, companyID *uuid.UUID, params pagination.Params) ([]models.AegisUser, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.AegisUser{})
	if companyID != nil {
		base = base.Where("company_id = ?", *companyID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var agents []models.AegisUser
	query := r.db.WithContext(ctx).Model(&models.AegisUser{})
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if err := query.
		Order("email ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&agents).Error; err != nil {
		return nil, 0, err
	}
	return agents, total, nil
}

// Update saves the provided account.
func (r *Repository) Update(ctx context.Context, agent *models.AegisUser) error {
	if agent == nil {
		return fmt.Errorf("agent is required")
	}
	return r.db.WithContext(ctx).Save(agent).Error
}

// Delete removes the account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AegisUser{}).Error
}
