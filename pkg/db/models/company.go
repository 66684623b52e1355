package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant record; nearly all other rows are scoped by its id.
type Company struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string     `gorm:"column:name;not null" json:"name"`
	Email           *string    `gorm:"column:email" json:"email,omitempty"`
	Phone           *string    `gorm:"column:phone" json:"phone,omitempty"`
	Domain          *string    `gorm:"column:domain" json:"domain,omitempty"`
	Subdomain       *string    `gorm:"column:subdomain;uniqueIndex:companies_subdomain_key" json:"subdomain,omitempty"`
	LogoURL         *string    `gorm:"column:logo_url" json:"logo_url,omitempty"`
	BannerURL       *string    `gorm:"column:banner_url" json:"banner_url,omitempty"`
	BrandColor      *string    `gorm:"column:brand_color" json:"brand_color,omitempty"`
	Currency        string     `gorm:"column:currency;not null;default:'usd'" json:"currency"`
	StripeAccountID *string    `gorm:"column:stripe_account_id" json:"stripe_account_id,omitempty"`
	IGUserID        *string    `gorm:"column:ig_user_id" json:"ig_user_id,omitempty"`
	IGAccessToken   *string    `gorm:"column:ig_access_token" json:"-"`
	Active          bool       `gorm:"column:active;not null;default:true" json:"active"`
	DeactivatedAt   *time.Time `gorm:"column:deactivated_at" json:"deactivated_at,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
