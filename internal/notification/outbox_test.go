package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOutboxTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&OutboxRow{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("new snowflake node: %v", err)
	}
	return db, node
}

func TestOutboxPublishDedupe(t *testing.T) {
	db, node := setupOutboxTestDB(t)
	outbox := NewOutbox(db, node)
	tenantID := node.Generate()

	msg := Message{
		TenantID:  tenantID,
		EventType: "invoice.created",
		Contact:   "+919876543210",
		Payload:   map[string]any{"invoice_id": "1"},
		DedupeKey: "invoice.created:1",
	}
	if err := outbox.Publish(context.Background(), msg); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := outbox.Publish(context.Background(), msg); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	var count int64
	if err := db.Model(&OutboxRow{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected deduped single row, got %d", count)
	}
}

func TestOutboxPublishValidation(t *testing.T) {
	db, node := setupOutboxTestDB(t)
	outbox := NewOutbox(db, node)

	if err := outbox.Publish(context.Background(), Message{EventType: "x"}); err == nil {
		t.Fatal("expected an error for a missing tenant id")
	}
	if err := outbox.Publish(context.Background(), Message{TenantID: node.Generate()}); err == nil {
		t.Fatal("expected an error for a missing event type")
	}
}

type recordingSender struct {
	sent []OutboxRow
	err  error
}

func (s *recordingSender) Send(ctx context.Context, row OutboxRow) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, row)
	return nil
}

func newTestDispatcher(db *gorm.DB, sender Sender) *Dispatcher {
	var cfg config.Config
	cfg.Notification.PollInterval = time.Second
	cfg.Notification.BatchSize = 10
	cfg.Notification.MaxAttempts = 2
	return NewDispatcher(DispatcherParams{
		DB:     db,
		Log:    zap.NewNop(),
		Sender: sender,
		Cfg:    cfg,
	})
}

func TestDispatcherRunOnceSends(t *testing.T) {
	db, node := setupOutboxTestDB(t)
	outbox := NewOutbox(db, node)
	tenantID := node.Generate()

	for i := 0; i < 2; i++ {
		err := outbox.Publish(context.Background(), Message{
			TenantID:  tenantID,
			EventType: "invoice.created",
			Contact:   "+911111111111",
			DedupeKey: fmt.Sprintf("invoice.created:%d", i),
		})
		if err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	sender := &recordingSender{}
	sent, err := newTestDispatcher(db, sender).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if sent != 2 || len(sender.sent) != 2 {
		t.Fatalf("expected 2 sent, got %d (%d recorded)", sent, len(sender.sent))
	}

	var pending int64
	if err := db.Model(&OutboxRow{}).Where("sent_at IS NULL").Count(&pending).Error; err != nil {
		t.Fatalf("count pending: %v", err)
	}
	if pending != 0 {
		t.Fatalf("expected no pending rows, got %d", pending)
	}
}

func TestDispatcherRetriesUntilMaxAttempts(t *testing.T) {
	db, node := setupOutboxTestDB(t)
	outbox := NewOutbox(db, node)

	err := outbox.Publish(context.Background(), Message{
		TenantID:  node.Generate(),
		EventType: "invoice.created",
		DedupeKey: "invoice.created:42",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	sender := &recordingSender{err: errors.New("gateway down")}
	dispatcher := newTestDispatcher(db, sender)

	// MaxAttempts is 2; the third run must not pick the row up again.
	for i := 0; i < 3; i++ {
		if _, err := dispatcher.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var row OutboxRow
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.SentAt != nil {
		t.Fatal("failed row marked as sent")
	}
	if row.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", row.Attempts)
	}
	if row.LastError == nil || *row.LastError != "gateway down" {
		t.Fatalf("expected recorded error, got %v", row.LastError)
	}
}
