package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk-backend/pkg/enums"
)

// User is a back-office staff account (worker/admin/mainadmin).
type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID    *uuid.UUID      `gorm:"column:company_id;type:uuid;index" json:"company_id,omitempty"`
	Email        string          `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string          `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string          `gorm:"column:last_name;not null" json:"last_name"`
	Role         enums.StaffRole `gorm:"column:role;not null" json:"role"`
	Active       bool            `gorm:"column:active;not null;default:true" json:"active"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// AegisUser is a tenant-facing agent account with its own role vocabulary
// (mainadmin/admin/agent). Deliberately not unified with User; each side has
// independent authorization logic.
type AegisUser struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyID    *uuid.UUID      `gorm:"column:company_id;type:uuid;index" json:"company_id,omitempty"`
	Email        string          `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	Name         string          `gorm:"column:name;not null" json:"name"`
	Role         enums.AgentRole `gorm:"column:role;not null" json:"role"`
	Active       bool            `gorm:"column:active;not null;default:true" json:"active"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the historical table name for agent accounts.
func (AegisUser) TableName() string {
	return "aegis_users"
}
