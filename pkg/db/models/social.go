package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// ScheduledPost is an Instagram post queued for a company.
type ScheduledPost struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID      uuid.UUID        `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	VehicleID      *uuid.UUID       `gorm:"column:vehicle_id;type:uuid" json:"vehicle_id,omitempty"`
	Caption        string           `gorm:"column:caption;not null" json:"caption"`
	ImageURL       string           `gorm:"column:image_url;not null" json:"image_url"`
	ScheduledAt    time.Time        `gorm:"column:scheduled_at;not null" json:"scheduled_at"`
	Status         enums.PostStatus `gorm:"column:status;not null;default:'scheduled'" json:"status"`
	PublishedAt    *time.Time       `gorm:"column:published_at" json:"published_at,omitempty"`
	FailureMessage *string          `gorm:"column:failure_message" json:"failure_message,omitempty"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// SocialPostTemplate is a reusable caption template per company.
type SocialPostTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Body      string    `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// SocialPostAnalytics stores fetched engagement counts for a published post.
type SocialPostAnalytics struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID   uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	PostID      uuid.UUID `gorm:"column:post_id;type:uuid;not null;index" json:"post_id"`
	Impressions int       `gorm:"column:impressions;not null;default:0" json:"impressions"`
	Likes       int       `gorm:"column:likes;not null;default:0" json:"likes"`
	Comments    int       `gorm:"column:comments;not null;default:0" json:"comments"`
	FetchedAt   time.Time `gorm:"column:fetched_at;not null" json:"fetched_at"`
}

// CompanyAutoPostSettings configures automated posting per company.
type CompanyAutoPostSettings struct {
	CompanyID   uuid.UUID  `gorm:"column:company_id;type:uuid;primaryKey" json:"company_id"`
	Enabled     bool       `gorm:"column:enabled;not null;default:false" json:"enabled"`
	PostTimeUTC string     `gorm:"column:post_time_utc;not null;default:'09:00'" json:"post_time_utc"`
	TemplateID  *uuid.UUID `gorm:"column:template_id;type:uuid" json:"template_id,omitempty"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// VehicleSocialPost records a published post for a vehicle.
type VehicleSocialPost struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID      uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	VehicleID      uuid.UUID `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	ProviderPostID string    `gorm:"column:provider_post_id;not null" json:"provider_post_id"`
	PublishedAt    time.Time `gorm:"column:published_at;not null" json:"published_at"`
}
