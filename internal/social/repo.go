package social

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/pagination"
)

// Repository handles social posting persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to social operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListScheduledPosts returns one page of a company's queued posts.
func (r *Repository) ListScheduledPosts(ctx context.Context, companyID uuid.UUID, params pagination.Params) ([]models.ScheduledPost, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.ScheduledPost{}).Where("company_id = ?", companyID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.ScheduledPost
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("scheduled_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CreateScheduledPost persists a new queued post.
func (r *Repository) CreateScheduledPost(ctx context.Context, post *models.ScheduledPost) error {
	if post == nil {
		return fmt.Errorf("post is required")
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// FindScheduledPostByID loads a queued post by its UUID.
func (r *Repository) FindScheduledPostByID(ctx context.Context, id uuid.UUID) (*models.ScheduledPost, error) {
	var post models.ScheduledPost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateScheduledPost saves the provided post.
func (r *Repository) UpdateScheduledPost(ctx context.Context, post *models.ScheduledPost) error {
	if post == nil {
		return fmt.Errorf("post is required")
	}
	return r.db.WithContext(ctx).Save(post).Error
}

// DeleteScheduledPost removes the queued post.
func (r *Repository) DeleteScheduledPost(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ScheduledPost{}).Error
}

// ListTemplates returns a company's caption templates.
func (r *Repository) ListTemplates(ctx context.Context, companyID uuid.UUID) ([]models.SocialPostTemplate, error) {
	var templates []models.SocialPostTemplate
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate persists a new caption template.
func (r *Repository) CreateTemplate(ctx context.Context, template *models.SocialPostTemplate) error {
	if template == nil {
		return fmt.Errorf("template is required")
	}
	return r.db.WithContext(ctx).Create(template).Error
}

// FindTemplateByID loads a template by its UUID.
func (r *Repository) FindTemplateByID(ctx context.Context, id uuid.UUID) (*models.SocialPostTemplate, error) {
	var template models.SocialPostTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate saves the provided template.
func (r *Repository) UpdateTemplate(ctx context.Context, template *models.SocialPostTemplate) error {
	if template == nil {
		return fmt.Errorf("template is required")
	}
	return r.db.WithContext(ctx).Save(template).Error
}

// DeleteTemplate removes the template.
func (r *Repository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SocialPostTemplate{}).Error
}

// GetAutoPostSettings loads a company's auto-post row.
func (r *Repository) GetAutoPostSettings(ctx context.Context, companyID uuid.UUID) (*models.CompanyAutoPostSettings, error) {
	var settings models.CompanyAutoPostSettings
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertAutoPostSettings writes the settings row, replacing any existing one.
func (r *Repository) UpsertAutoPostSettings(ctx context.Context, settings *models.CompanyAutoPostSettings) error {
	if settings == nil {
		return fmt.Errorf("settings are required")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "post_time_utc", "template_id", "updated_at"}),
		}).
		Create(settings).Error
}

// CreateVehiclePost records a published vehicle post.
func (r *Repository) CreateVehiclePost(ctx context.Context, post *models.VehicleSocialPost) error {
	if post == nil {
		return fmt.Errorf("vehicle post is required")
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// FindVehiclePostByID loads a published vehicle post by its UUID.
func (r *Repository) FindVehiclePostByID(ctx context.Context, id uuid.UUID) (*models.VehicleSocialPost, error) {
	var post models.VehicleSocialPost
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateAnalytics appends a fetched engagement snapshot.
func (r *Repository) CreateAnalytics(ctx context.Context, analytics *models.SocialPostAnalytics) error {
	if analytics == nil {
		return fmt.Errorf("analytics row is required")
	}
	return r.db.WithContext(ctx).Create(analytics).Error
}

// ListAnalytics returns a company's engagement snapshots newest first.
func (r *Repository) ListAnalytics(ctx context.Context, companyID uuid.UUID) ([]models.SocialPostAnalytics, error) {
	var rows []models.SocialPostAnalytics
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("fetched_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
