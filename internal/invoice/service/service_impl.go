package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	academicyeardomain "github.com/smallbiznis/scholara/internal/academicyear/domain"
	auditdomain "github.com/smallbiznis/scholara/internal/audit/domain"
	"github.com/smallbiznis/scholara/internal/clock"
	"github.com/smallbiznis/scholara/internal/config"
	"github.com/smallbiznis/scholara/internal/events"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
	"github.com/smallbiznis/scholara/internal/invoice/domain"
	"github.com/smallbiznis/scholara/internal/notification"
	"github.com/smallbiznis/scholara/internal/observability/logger"
	studentdomain "github.com/smallbiznis/scholara/internal/student/domain"
	tenantdomain "github.com/smallbiznis/scholara/internal/tenant/domain"
	"github.com/smallbiznis/scholara/internal/tenantcontext"
	"github.com/smallbiznis/scholara/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const paymentRetryAttempts = 3

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Catalog  feecatalogdomain.Service
	Years    academicyeardomain.Repository
	Students studentdomain.Directory
	Tenants  tenantdomain.Repository
	Outbox   *notification.Outbox
	Audit    auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	catalog  feecatalogdomain.Service
	years    academicyeardomain.Repository
	students studentdomain.Directory
	tenants  tenantdomain.Repository
	outbox   *notification.Outbox
	audit    auditdomain.Service

	penaltyAmount int64

	// called between the payment read and its conditional write; lets tests
	// interleave a competing writer.
	beforePaymentWrite func()
}

func NewService(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("invoice.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		catalog:       p.Catalog,
		years:         p.Years,
		students:      p.Students,
		tenants:       p.Tenants,
		outbox:        p.Outbox,
		audit:         p.Audit,
		penaltyAmount: p.Cfg.Billing.PenaltyAmount,
	}
}

// generationScope carries the per-request inputs shared by every student in
// one generation batch.
type generationScope struct {
	tenant      *tenantdomain.Tenant
	year        *academicyeardomain.AcademicYear
	structure   *feecatalogdomain.FeeStructure
	monthKey    string
	previousKey string
	isExamMonth bool
	penalized   map[snowflake.ID]bool
}

func (s *Service) GenerateInvoices(ctx context.Context, req domain.GenerateInvoicesRequest) (domain.GenerateInvoicesResponse, error) {
	var resp domain.GenerateInvoicesResponse

	tenantID, ok := tenantcontext.TenantIDFromContext(ctx)
	if !ok {
		return resp, domain.ErrInvalidTenant
	}
	yearID, ok := tenantcontext.AcademicYearIDFromContext(ctx)
	if !ok {
		return resp, domain.ErrInvalidAcademicYear
	}
	month, err := domain.ParseMonthName(req.Month)
	if err != nil {
		return resp, err
	}

	year, err := s.years.FindByID(ctx, tenantID, yearID)
	if err != nil {
		return resp, err
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return resp, err
	}
	students, classID, err := s.resolveStudents(ctx, tenantID, req)
	if err != nil {
		return resp, err
	}
	structure, err := s.catalog.FindForScope(ctx, tenantID, classID, yearID)
	if err != nil {
		return resp, err
	}

	calendarYear := year.ResolveYear(month)
	scope := generationScope{
		tenant:      tenant,
		year:        year,
		structure:   structure,
		monthKey:    domain.MonthKey(calendarYear, month),
		previousKey: domain.PreviousMonthKey(calendarYear, month),
		isExamMonth: req.IsExamMonth,
		penalized:   make(map[snowflake.ID]bool, len(req.PenaltyStudentIDs)),
	}
	dueDate := domain.DueDateFor(calendarYear, month)
	for _, id := range req.PenaltyStudentIDs {
		scope.penalized[id] = true
	}

	for _, student := range students {
		invoice, err := s.generateOne(ctx, scope, student, month, calendarYear)
		switch {
		case errors.Is(err, domain.ErrDuplicateInvoice):
			resp.Skipped++
		case err != nil:
			s.log.Warn("invoice generation failed for student",
				zap.String("student_id", student.ID.String()),
				zap.String("month_key", scope.monthKey),
				zap.Error(err))
			resp.Failures = append(resp.Failures, domain.GenerationFailure{
				StudentID: student.ID,
				Reason:    err.Error(),
			})
		default:
			resp.Invoices = append(resp.Invoices, *invoice)
		}
	}

	classTarget := classID.String()
	_ = s.audit.AuditLog(ctx, &tenantID, "", "invoice.generate", "class", &classTarget, map[string]any{
		"month_key": scope.monthKey,
		"due_date":  dueDate.Format("2006-01-02"),
		"generated": len(resp.Invoices),
		"skipped":   resp.Skipped,
		"failed":    len(resp.Failures),
	})
	return resp, nil
}

func (s *Service) resolveStudents(ctx context.Context, tenantID snowflake.ID, req domain.GenerateInvoicesRequest) ([]studentdomain.Student, snowflake.ID, error) {
	if req.StudentID != 0 {
		student, err := s.students.FindByID(ctx, tenantID, req.StudentID)
		if err != nil {
			return nil, 0, err
		}
		return []studentdomain.Student{*student}, student.ClassID, nil
	}
	if req.ClassID == 0 {
		return nil, 0, domain.ErrInvalidClass
	}
	students, err := s.students.ListByClass(ctx, tenantID, req.ClassID)
	if err != nil {
		return nil, 0, err
	}
	if len(students) == 0 {
		return nil, 0, studentdomain.ErrNoStudentsInScope
	}
	return students, req.ClassID, nil
}

func (s *Service) generateOne(ctx context.Context, scope generationScope, student studentdomain.Student, month time.Month, calendarYear int) (*domain.Invoice, error) {
	tenantID := scope.tenant.ID

	// Fast path only; the unique index on (tenant, student, month key, year)
	// is the real guard against concurrent duplicates.
	var existing int64
	err := s.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("tenant_id = ? AND student_id = ? AND month_key = ? AND academic_year_id = ?",
			tenantID, student.ID, scope.monthKey, scope.year.ID).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrDuplicateInvoice
	}

	lines, baseAmount, currentCharges, err := evaluateCharges(
		scope.structure,
		student,
		month,
		scope.year.StartMonth(),
		scope.isExamMonth,
		scope.penalized[student.ID],
		s.penaltyAmount,
	)
	if err != nil {
		return nil, err
	}

	previousDue, err := s.previousDue(ctx, tenantID, student.ID, scope.previousKey)
	if err != nil {
		return nil, err
	}

	discounts, totalDiscount := applyDiscounts(scope.structure.Discounts, currentCharges)
	currentCharges -= totalDiscount

	now := s.clock.Now()
	dueDate := domain.DueDateFor(calendarYear, month)
	total := baseAmount + currentCharges + previousDue
	inv := domain.Invoice{
		ID:             s.genID.Generate(),
		TenantID:       tenantID,
		StudentID:      student.ID,
		MonthKey:       scope.monthKey,
		AcademicYearID: scope.year.ID,
		ClassID:        student.ClassID,
		BaseAmount:     baseAmount,
		CurrentCharges: currentCharges,
		PreviousDue:    previousDue,
		TotalAmount:    total,
		PaidAmount:     0,
		RemainingDue:   total,
		Status:         domain.DeriveStatus(0, total, dueDate, now),
		DueDate:        dueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for i, line := range lines {
		inv.Lines = append(inv.Lines, domain.InvoiceLine{
			ID:        s.genID.Generate(),
			InvoiceID: inv.ID,
			Name:      line.Name,
			Category:  line.Category,
			Amount:    line.Amount,
			Position:  i,
			CreatedAt: now,
		})
	}
	for i, discount := range discounts {
		inv.Discounts = append(inv.Discounts, domain.InvoiceDiscount{
			ID:        s.genID.Generate(),
			InvoiceID: inv.ID,
			Name:      discount.Name,
			Kind:      discount.Kind,
			Amount:    discount.Amount,
			Position:  i,
			CreatedAt: now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&inv)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDuplicateInvoice
		}
		if len(inv.Lines) > 0 {
			if err := tx.Create(&inv.Lines).Error; err != nil {
				return err
			}
		}
		if len(inv.Discounts) > 0 {
			if err := tx.Create(&inv.Discounts).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueReminder(ctx, scope.tenant, student, inv)
	return &inv, nil
}

func (s *Service) previousDue(ctx context.Context, tenantID, studentID snowflake.ID, previousKey string) (int64, error) {
	var prev domain.Invoice
	err := s.db.WithContext(ctx).
		Select("remaining_due").
		Where("tenant_id = ? AND student_id = ? AND month_key = ?", tenantID, studentID, previousKey).
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return prev.RemainingDue, nil
}

// enqueueReminder runs after the invoice transaction commits, so an outbox
// failure can never roll the invoice back. Enqueue failures are logged and
// swallowed; the dedupe key keeps a regenerated batch from duplicating
// reminders.
func (s *Service) enqueueReminder(ctx context.Context, tenant *tenantdomain.Tenant, student studentdomain.Student, inv domain.Invoice) {
	if !tenant.NotificationsEnabled {
		return
	}
	contact := strings.TrimSpace(student.GuardianContact)
	if contact == "" {
		return
	}

	payload := events.InvoiceReminderPayload{
		InvoiceID:   inv.ID.String(),
		StudentName: student.Name,
		MonthKey:    inv.MonthKey,
		TotalAmount: inv.TotalAmount,
		DueDate:     inv.DueDate.Format("2006-01-02"),
	}
	err := s.outbox.Publish(ctx, notification.Message{
		TenantID:  tenant.ID,
		EventType: events.EventInvoiceCreated,
		Contact:   contact,
		Payload:   payload.ToMap(),
		DedupeKey: fmt.Sprintf("%s:%s", events.EventInvoiceCreated, inv.ID.String()),
	})
	if err != nil {
		s.log.Warn("reminder enqueue failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("contact", logger.MaskContact(contact)),
			zap.Error(err))
	}
}

func (s *Service) ApplyPayment(ctx context.Context, req domain.ApplyPaymentRequest) (domain.Invoice, error) {
	tenantID, ok := tenantcontext.TenantIDFromContext(ctx)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidTenant
	}
	if req.InvoiceID == 0 {
		return domain.Invoice{}, domain.ErrInvalidInvoiceID
	}
	if req.Amount <= 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return domain.Invoice{}, domain.ErrInvalidMethod
	}

	// The conditional update races against the late-fee sweep, which can
	// change total_amount between our read and write. Re-read and retry.
	for attempt := 0; attempt < paymentRetryAttempts; attempt++ {
		paymentID, status, err := s.tryApplyPayment(ctx, tenantID, req, method)
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			continue
		}
		if err != nil {
			return domain.Invoice{}, err
		}

		invoiceTarget := req.InvoiceID.String()
		_ = s.audit.AuditLog(ctx, &tenantID, req.ProcessedBy, "invoice.payment", "invoice", &invoiceTarget, map[string]any{
			"amount": req.Amount,
			"method": method,
			"status": string(status),
		})
		s.notifyPayment(ctx, tenantID, req.InvoiceID, paymentID, status)
		return s.GetInvoice(ctx, req.InvoiceID)
	}
	return domain.Invoice{}, domain.ErrConcurrentUpdate
}

func (s *Service) tryApplyPayment(ctx context.Context, tenantID snowflake.ID, req domain.ApplyPaymentRequest, method string) (snowflake.ID, domain.InvoiceStatus, error) {
	var inv domain.Invoice
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", req.InvoiceID, tenantID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, "", domain.ErrInvoiceNotFound
	}
	if err != nil {
		return 0, "", err
	}
	if s.beforePaymentWrite != nil {
		s.beforePaymentWrite()
	}

	now := s.clock.Now()
	newPaid := inv.PaidAmount + req.Amount
	newRemaining := inv.TotalAmount - newPaid
	if newRemaining < 0 {
		newRemaining = 0
	}
	status := domain.DeriveStatus(newPaid, inv.TotalAmount, inv.DueDate, now)

	payment := domain.InvoicePayment{
		ID:          s.genID.Generate(),
		InvoiceID:   inv.ID,
		Amount:      req.Amount,
		Method:      method,
		ProcessedBy: strings.TrimSpace(req.ProcessedBy),
		PaidAt:      now,
		CreatedAt:   now,
	}
	if txn := strings.TrimSpace(req.TransactionID); txn != "" {
		payment.TransactionID = &txn
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`UPDATE invoices
			 SET paid_amount = ?, remaining_due = ?, status = ?, updated_at = ?
			 WHERE id = ? AND paid_amount = ? AND total_amount = ?`,
			newPaid, newRemaining, status, now,
			inv.ID, inv.PaidAmount, inv.TotalAmount,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrConcurrentUpdate
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return 0, "", err
	}
	return payment.ID, status, nil
}

func (s *Service) notifyPayment(ctx context.Context, tenantID, invoiceID, paymentID snowflake.ID, status domain.InvoiceStatus) {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil || !tenant.NotificationsEnabled {
		return
	}

	var inv domain.Invoice
	if err := s.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", invoiceID, tenantID).First(&inv).Error; err != nil {
		return
	}
	student, err := s.students.FindByID(ctx, tenantID, inv.StudentID)
	if err != nil || strings.TrimSpace(student.GuardianContact) == "" {
		return
	}

	// Partial receipts dedupe per payment; the settled notice dedupes per
	// invoice so the guardian hears "paid in full" at most once.
	eventType := events.EventPaymentRecorded
	dedupeKey := fmt.Sprintf("%s:%s", eventType, paymentID.String())
	if status == domain.StatusPaid {
		eventType = events.EventInvoicePaid
		dedupeKey = fmt.Sprintf("%s:%s", eventType, invoiceID.String())
	}

	err = s.outbox.Publish(ctx, notification.Message{
		TenantID:  tenantID,
		EventType: eventType,
		Contact:   student.GuardianContact,
		Payload: map[string]any{
			"invoice_id":   invoiceID.String(),
			"student_name": student.Name,
			"month_key":    inv.MonthKey,
			"paid_amount":  inv.PaidAmount,
			"status":       string(status),
		},
		DedupeKey: dedupeKey,
	})
	if err != nil {
		s.log.Warn("payment notification enqueue failed",
			zap.String("invoice_id", invoiceID.String()),
			zap.Error(err))
	}
}

func (s *Service) GetInvoice(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	tenantID, ok := tenantcontext.TenantIDFromContext(ctx)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidTenant
	}
	if id == 0 {
		return domain.Invoice{}, domain.ErrInvalidInvoiceID
	}

	var inv domain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_lines.position, invoice_lines.id")
		}).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_discounts.position, invoice_discounts.id")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("invoice_payments.id")
		}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoicesRequest) (domain.ListInvoicesResponse, error) {
	var resp domain.ListInvoicesResponse

	tenantID, ok := tenantcontext.TenantIDFromContext(ctx)
	if !ok {
		return resp, domain.ErrInvalidTenant
	}

	filtered := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&domain.Invoice{}).Where("tenant_id = ?", tenantID)
		if req.StudentID != 0 {
			q = q.Where("student_id = ?", req.StudentID)
		}
		if req.ClassID != 0 {
			q = q.Where("class_id = ?", req.ClassID)
		}
		if req.Status != "" {
			q = q.Where("status = ?", req.Status)
		}
		if req.MonthKey != "" {
			q = q.Where("month_key = ?", req.MonthKey)
		}
		return q
	}

	if err := filtered().Count(&resp.TotalSize).Error; err != nil {
		return resp, err
	}

	limit := req.Limit()
	q := filtered().Order("id").Limit(limit)
	if cursor := req.Cursor(); cursor > 0 {
		q = q.Where("id > ?", cursor)
	}
	if err := q.Find(&resp.Invoices).Error; err != nil {
		return resp, err
	}
	if len(resp.Invoices) == limit {
		resp.NextPageToken = pagination.TokenFor(int64(resp.Invoices[len(resp.Invoices)-1].ID))
	}
	return resp, nil
}
