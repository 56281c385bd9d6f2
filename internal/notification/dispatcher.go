package notification

import (
	"context"
	"time"

	"github.com/smallbiznis/scholara/internal/config"
	"github.com/smallbiznis/scholara/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DispatcherParams struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Sender Sender
	Cfg    config.Config
}

// Dispatcher drains the notification outbox on a polling loop. Failed sends
// record the error and retry until MaxAttempts; nothing propagates back to
// the billing flow.
type Dispatcher struct {
	db          *gorm.DB
	log         *zap.Logger
	sender      Sender
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	interval := p.Cfg.Notification.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	batchSize := p.Cfg.Notification.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	maxAttempts := p.Cfg.Notification.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Dispatcher{
		db:          p.DB,
		log:         p.Log.Named("notification.dispatcher"),
		sender:      p.Sender,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

func (d *Dispatcher) RunForever(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.RunOnce(ctx); err != nil {
			d.log.Warn("notification dispatch run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce drains one batch and returns the number of notifications sent.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	var rows []OutboxRow
	err := d.db.WithContext(ctx).
		Where("sent_at IS NULL AND attempts < ?", d.maxAttempts).
		Order("id").
		Limit(d.batchSize).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		if err := d.sender.Send(ctx, row); err != nil {
			d.log.Warn("notification send failed",
				zap.String("outbox_id", row.ID.String()),
				zap.String("event_type", row.EventType),
				zap.String("contact", logger.MaskContact(row.Contact)),
				zap.Error(err))
			d.markFailed(ctx, row, err)
			continue
		}
		if err := d.markSent(ctx, row); err != nil {
			d.log.Warn("notification mark sent failed",
				zap.String("outbox_id", row.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (d *Dispatcher) markSent(ctx context.Context, row OutboxRow) error {
	now := time.Now().UTC()
	return d.db.WithContext(ctx).Exec(
		`UPDATE notification_outbox
		 SET sent_at = ?, attempts = attempts + 1, last_error = NULL
		 WHERE id = ? AND sent_at IS NULL`,
		now,
		row.ID,
	).Error
}

func (d *Dispatcher) markFailed(ctx context.Context, row OutboxRow, sendErr error) {
	message := sendErr.Error()
	if err := d.db.WithContext(ctx).Exec(
		`UPDATE notification_outbox
		 SET attempts = attempts + 1, last_error = ?
		 WHERE id = ?`,
		message,
		row.ID,
	).Error; err != nil {
		d.log.Warn("notification mark failed errored",
			zap.String("outbox_id", row.ID.String()),
			zap.Error(err))
	}
}
