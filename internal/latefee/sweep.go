package latefee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/scholara/internal/audit/domain"
	"github.com/smallbiznis/scholara/internal/clock"
	"github.com/smallbiznis/scholara/internal/config"
	"github.com/smallbiznis/scholara/internal/events"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
	invoicedomain "github.com/smallbiznis/scholara/internal/invoice/domain"
	"github.com/smallbiznis/scholara/internal/notification"
	studentdomain "github.com/smallbiznis/scholara/internal/student/domain"
	tenantdomain "github.com/smallbiznis/scholara/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Catalog  feecatalogdomain.Service
	Students studentdomain.Directory
	Tenants  tenantdomain.Repository
	Outbox   *notification.Outbox
	Audit    auditdomain.Service
}

// Sweep walks overdue unpaid invoices and applies the configured late fee to
// each at most once. The unmodified-late-fee predicate on the write makes a
// second pass over the same invoice a no-op.
type Sweep struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	catalog   feecatalogdomain.Service
	students  studentdomain.Directory
	tenants   tenantdomain.Repository
	outbox    *notification.Outbox
	audit     auditdomain.Service
	batchSize int
}

func NewSweep(p Params) *Sweep {
	batchSize := p.Cfg.Billing.SweepBatchSize
	if batchSize <= 0 {
		batchSize = 200
	}
	return &Sweep{
		db:        p.DB,
		log:       p.Log.Named("latefee.sweep"),
		genID:     p.GenID,
		clock:     p.Clock,
		catalog:   p.Catalog,
		students:  p.Students,
		tenants:   p.Tenants,
		outbox:    p.Outbox,
		audit:     p.Audit,
		batchSize: batchSize,
	}
}

// Run scans candidates in id order and returns the number of invoices that
// received a late fee. A failure on one invoice never stops the scan.
func (s *Sweep) Run(ctx context.Context) (int, error) {
	now := s.clock.Now()
	candidateStatuses := []invoicedomain.InvoiceStatus{
		invoicedomain.StatusPending,
		invoicedomain.StatusPartial,
		invoicedomain.StatusOverdue,
	}

	updated := 0
	var lastID snowflake.ID
	for {
		var batch []invoicedomain.Invoice
		err := s.db.WithContext(ctx).
			Where("status IN ? AND due_date < ? AND late_fee = 0 AND remaining_due > 0 AND id > ?",
				candidateStatuses, now, lastID).
			Order("id").
			Limit(s.batchSize).
			Find(&batch).Error
		if err != nil {
			return updated, err
		}
		if len(batch) == 0 {
			break
		}

		for _, inv := range batch {
			lastID = inv.ID
			applied, err := s.applyOne(ctx, inv, now)
			if err != nil {
				s.log.Warn("late fee application failed",
					zap.String("invoice_id", inv.ID.String()),
					zap.Error(err))
				continue
			}
			if applied {
				updated++
			}
		}
		if len(batch) < s.batchSize {
			break
		}
	}

	s.log.Info("late fee sweep completed", zap.Int("updated", updated))
	return updated, nil
}

func (s *Sweep) applyOne(ctx context.Context, inv invoicedomain.Invoice, now time.Time) (bool, error) {
	structure, err := s.catalog.FindForScope(ctx, inv.TenantID, inv.ClassID, inv.AcademicYearID)
	if errors.Is(err, feecatalogdomain.ErrFeeStructureNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	cfg := structure.LateFee
	fee := Compute(cfg, DaysLate(inv.DueDate, now), inv.RemainingDue)
	if fee <= 0 {
		return false, nil
	}

	applied := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE invoices
			 SET late_fee = ?, total_amount = total_amount + ?, remaining_due = remaining_due + ?, status = ?, updated_at = ?
			 WHERE id = ? AND late_fee = 0 AND status IN (?, ?, ?)`,
			fee, fee, fee, invoicedomain.StatusOverdue, now,
			inv.ID,
			invoicedomain.StatusPending, invoicedomain.StatusPartial, invoicedomain.StatusOverdue,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a payment or an earlier sweep pass.
			return nil
		}

		var position int64
		if err := tx.Model(&invoicedomain.InvoiceLine{}).
			Where("invoice_id = ?", inv.ID).
			Count(&position).Error; err != nil {
			return err
		}
		line := invoicedomain.InvoiceLine{
			ID:        s.genID.Generate(),
			InvoiceID: inv.ID,
			Name:      invoicedomain.LateFeeLineName,
			Category:  feecatalogdomain.FeeCategoryLateFee,
			Amount:    fee,
			Position:  int(position),
			CreatedAt: now,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil || !applied {
		return false, err
	}

	invoiceTarget := inv.ID.String()
	_ = s.audit.AuditLog(ctx, &inv.TenantID, "", "invoice.late_fee", "invoice", &invoiceTarget, map[string]any{
		"amount":    fee,
		"month_key": inv.MonthKey,
	})
	s.notify(ctx, inv, fee)
	return true, nil
}

func (s *Sweep) notify(ctx context.Context, inv invoicedomain.Invoice, fee int64) {
	tenant, err := s.tenants.FindByID(ctx, inv.TenantID)
	if err != nil || !tenant.NotificationsEnabled {
		return
	}
	student, err := s.students.FindByID(ctx, inv.TenantID, inv.StudentID)
	if err != nil || strings.TrimSpace(student.GuardianContact) == "" {
		return
	}

	err = s.outbox.Publish(ctx, notification.Message{
		TenantID:  inv.TenantID,
		EventType: events.EventLateFeeApplied,
		Contact:   student.GuardianContact,
		Payload: map[string]any{
			"invoice_id":   inv.ID.String(),
			"student_name": student.Name,
			"month_key":    inv.MonthKey,
			"late_fee":     fee,
		},
		DedupeKey: fmt.Sprintf("%s:%s", events.EventLateFeeApplied, inv.ID.String()),
	})
	if err != nil {
		s.log.Warn("late fee notification enqueue failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
	}
}
