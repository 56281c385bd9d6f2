package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ActorType represents who triggered an action.
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// AuditLog captures an immutable record of a billing action.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	TenantID   *snowflake.ID     `gorm:"index"`
	ActorType  string            `gorm:"type:text;not null"`
	ActorID    *string           `gorm:"type:text"`
	Action     string            `gorm:"type:text;not null;index"`
	TargetType string            `gorm:"type:text;not null"`
	TargetID   *string           `gorm:"type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// Service writes audit entries. Implementations must never fail the calling
// operation on audit write errors.
type Service interface {
	AuditLog(ctx context.Context, tenantID *snowflake.ID, actorID string, action, targetType string, targetID *string, metadata map[string]any) error
}
