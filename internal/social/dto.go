package social

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// ScheduledPostDTO exposes a queued Instagram post.
type ScheduledPostDTO struct {
	ID             uuid.UUID        `json:"id"`
	CompanyID      uuid.UUID        `json:"company_id"`
	VehicleID      *uuid.UUID       `json:"vehicle_id,omitempty"`
	Caption        string           `json:"caption"`
	ImageURL       string           `json:"image_url"`
	ScheduledAt    time.Time        `json:"scheduled_at"`
	Status         enums.PostStatus `json:"status"`
	PublishedAt    *time.Time       `json:"published_at,omitempty"`
	FailureMessage *string          `json:"failure_message,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ScheduledPostFromModel maps the persisted post into a DTO.
func ScheduledPostFromModel(m *models.ScheduledPost) *ScheduledPostDTO {
	if m == nil {
		return nil
	}
	return &ScheduledPostDTO{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		VehicleID:      m.VehicleID,
		Caption:        m.Caption,
		ImageURL:       m.ImageURL,
		ScheduledAt:    m.ScheduledAt,
		Status:         m.Status,
		PublishedAt:    m.PublishedAt,
		FailureMessage: m.FailureMessage,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// TemplateDTO exposes a reusable caption template.
type TemplateDTO struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateFromModel maps the persisted template into a DTO.
func TemplateFromModel(m *models.SocialPostTemplate) *TemplateDTO {
	if m == nil {
		return nil
	}
	return &TemplateDTO{
		ID:        m.ID,
		CompanyID: m.CompanyID,
		Name:      m.Name,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// AutoPostSettingsDTO exposes per-company automated posting config.
type AutoPostSettingsDTO struct {
	CompanyID   uuid.UUID  `json:"company_id"`
	Enabled     bool       `json:"enabled"`
	PostTimeUTC string     `json:"post_time_utc"`
	TemplateID  *uuid.UUID `json:"template_id,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AutoPostSettingsFromModel maps the persisted settings into a DTO.
func AutoPostSettingsFromModel(m *models.CompanyAutoPostSettings) *AutoPostSettingsDTO {
	if m == nil {
		return nil
	}
	return &AutoPostSettingsDTO{
		CompanyID:   m.CompanyID,
		Enabled:     m.Enabled,
		PostTimeUTC: m.PostTimeUTC,
		TemplateID:  m.TemplateID,
		UpdatedAt:   m.UpdatedAt,
	}
}

// VehiclePostDTO records a published vehicle post.
type VehiclePostDTO struct {
	ID             uuid.UUID `json:"id"`
	CompanyID      uuid.UUID `json:"company_id"`
	VehicleID      uuid.UUID `json:"vehicle_id"`
	ProviderPostID string    `json:"provider_post_id"`
	PublishedAt    time.Time `json:"published_at"`
}

// VehiclePostFromModel maps the persisted record into a DTO.
func VehiclePostFromModel(m *models.VehicleSocialPost) *VehiclePostDTO {
	if m == nil {
		return nil
	}
	return &VehiclePostDTO{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		VehicleID:      m.VehicleID,
		ProviderPostID: m.ProviderPostID,
		PublishedAt:    m.PublishedAt,
	}
}

// AnalyticsDTO exposes stored engagement counts for a post.
type AnalyticsDTO struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	PostID      uuid.UUID `json:"post_id"`
	Impressions int       `json:"impressions"`
	Likes       int       `json:"likes"`
	Comments    int       `json:"comments"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// AnalyticsFromModel maps the persisted counts into a DTO.
func AnalyticsFromModel(m *models.SocialPostAnalytics) *AnalyticsDTO {
	if m == nil {
		return nil
	}
	return &AnalyticsDTO{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		PostID:      m.PostID,
		Impressions: m.Impressions,
		Likes:       m.Likes,
		Comments:    m.Comments,
		FetchedAt:   m.FetchedAt,
	}
}
