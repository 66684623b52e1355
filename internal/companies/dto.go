package companies

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/db/models"
)

// CompanyDTO exposes tenant data in API responses.
type CompanyDTO struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Domain          *string    `json:"domain,omitempty"`
	Subdomain       *string    `json:"subdomain,omitempty"`
	LogoURL         *string    `json:"logo_url,omitempty"`
	BannerURL       *string    `json:"banner_url,omitempty"`
	BrandColor      *string    `json:"brand_color,omitempty"`
	Currency        string     `json:"currency"`
	StripeAccountID *string    `json:"stripe_account_id,omitempty"`
	Active          bool       `json:"active"`
	DeactivatedAt   *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ConfigDTO is the public, cacheable branding surface resolved by subdomain.
// Keep it small; it is serialized into Redis as-is.
type ConfigDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Subdomain  string    `json:"subdomain"`
	LogoURL    *string   `json:"logo_url,omitempty"`
	BannerURL  *string   `json:"banner_url,omitempty"`
	BrandColor *string   `json:"brand_color,omitempty"`
	Currency   string    `json:"currency"`
	Active     bool      `json:"active"`
}

// CreateCompanyDTO holds creation-time data for a new tenant.
type CreateCompanyDTO struct {
	Name       string
	Email      *string
	Phone      *string
	Domain     *string
	Subdomain  *string
	BrandColor *string
	Currency   *string
}

// FromModel maps the persisted company into a DTO.
func FromModel(m *models.Company) *CompanyDTO {
	if m == nil {
		return nil
	}
	return &CompanyDTO{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Domain:          m.Domain,
		Subdomain:       m.Subdomain,
		LogoURL:         m.LogoURL,
		BannerURL:       m.BannerURL,
		BrandColor:      m.BrandColor,
		Currency:        m.Currency,
		StripeAccountID: m.StripeAccountID,
		Active:          m.Active,
		DeactivatedAt:   m.DeactivatedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ConfigFromModel maps the company into its public config projection.
func ConfigFromModel(m *models.Company) *ConfigDTO {
	if m == nil {
		return nil
	}
	subdomain := ""
	if m.Subdomain != nil {
		subdomain = *m.Subdomain
	}
	return &ConfigDTO{
		ID:         m.ID,
		Name:       m.Name,
		Subdomain:  subdomain,
		LogoURL:    m.LogoURL,
		BannerURL:  m.BannerURL,
		BrandColor: m.BrandColor,
		Currency:   m.Currency,
		Active:     m.Active,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateCompanyDTO) ToModel() *models.Company {
	model := &models.Company{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Domain:     c.Domain,
		Subdomain:  c.Subdomain,
		BrandColor: c.BrandColor,
		Currency:   "usd",
		Active:     true,
	}
	if c.Currency != nil && *c.Currency != "" {
		model.Currency = *c.Currency
	}
	return model
}
