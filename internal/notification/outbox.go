package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message describes an outbound guardian notification to enqueue.
type Message struct {
	TenantID  snowflake.ID
	EventType string
	Contact   string
	Payload   map[string]any
	DedupeKey string
}

// OutboxRow is one persisted notification awaiting dispatch.
type OutboxRow struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	TenantID  snowflake.ID      `gorm:"not null;uniqueIndex:ux_notification_outbox_dedupe,priority:1"`
	EventType string            `gorm:"type:text;not null"`
	Contact   string            `gorm:"type:text;not null;default:''"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	DedupeKey *string           `gorm:"type:text;uniqueIndex:ux_notification_outbox_dedupe,priority:2"`
	Attempts  int               `gorm:"not null;default:0"`
	LastError *string           `gorm:"type:text"`
	SentAt    *time.Time        ``
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (OutboxRow) TableName() string { return "notification_outbox" }

// Outbox stores notifications durably so billing writes never wait on, or
// fail because of, message delivery.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

// Publish stores a message, deduplicating on (tenant, dedupe key).
func (o *Outbox) Publish(ctx context.Context, msg Message) error {
	if o == nil || o.db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	if msg.TenantID == 0 {
		return errors.New("invalid_tenant_id")
	}
	eventType := strings.TrimSpace(msg.EventType)
	if eventType == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range msg.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	var dedupeValue *string
	if dedupe := strings.TrimSpace(msg.DedupeKey); dedupe != "" {
		dedupeValue = &dedupe
	}

	now := time.Now().UTC()
	return o.db.WithContext(ctx).Exec(
		`INSERT INTO notification_outbox (id, tenant_id, event_type, contact, payload, dedupe_key, attempts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)
		 ON CONFLICT (tenant_id, dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		msg.TenantID,
		eventType,
		strings.TrimSpace(msg.Contact),
		payload,
		dedupeValue,
		now,
	).Error
}
