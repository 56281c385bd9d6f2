package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tenant is one school on the platform. Only the billing-relevant settings
// live here; identity and membership are owned by the external auth layer.
type Tenant struct {
	ID                   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name                 string       `gorm:"type:text;not null" json:"name"`
	NotificationsEnabled bool         `gorm:"not null;default:false" json:"notifications_enabled"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }
