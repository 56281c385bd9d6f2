package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/scholara/internal/invoice/domain"
	"github.com/smallbiznis/scholara/pkg/db/pagination"
)

type generateInvoicesRequest struct {
	ClassID           string   `json:"class_id"`
	Month             string   `json:"month" binding:"required,monthname"`
	StudentID         string   `json:"student_id"`
	IsExamMonth       bool     `json:"is_exam_month"`
	PenaltyStudentIDs []string `json:"penalty_student_ids"`
}

// @Summary      Generate Invoices
// @Description  Generate monthly invoices for a class or a single student
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID         header  string  true   "Tenant ID"
// @Param        X-Academic-Year-ID  header  string  true   "Academic Year ID"
// @Param        request body generateInvoicesRequest true "Generate Invoices Request"
// @Success      200  {object}  invoicedomain.GenerateInvoicesResponse
// @Router       /invoices/generate [post]
func (s *Server) GenerateInvoices(c *gin.Context) {
	var req generateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	classID, err := parseOptionalID(req.ClassID)
	if err != nil {
		AbortWithError(c, newValidationError("class_id", "invalid_class_id", "invalid class id"))
		return
	}
	studentID, err := parseOptionalID(req.StudentID)
	if err != nil {
		AbortWithError(c, newValidationError("student_id", "invalid_student_id", "invalid student id"))
		return
	}
	penaltyIDs := make([]snowflake.ID, 0, len(req.PenaltyStudentIDs))
	for _, raw := range req.PenaltyStudentIDs {
		id, err := parseOptionalID(raw)
		if err != nil || id == 0 {
			AbortWithError(c, newValidationError("penalty_student_ids", "invalid_student_id", "invalid penalty student id"))
			return
		}
		penaltyIDs = append(penaltyIDs, id)
	}

	resp, err := s.invoiceSvc.GenerateInvoices(c.Request.Context(), invoicedomain.GenerateInvoicesRequest{
		ClassID:           classID,
		Month:             strings.TrimSpace(req.Month),
		StudentID:         studentID,
		IsExamMonth:       req.IsExamMonth,
		PenaltyStudentIDs: penaltyIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type applyPaymentRequest struct {
	Amount        int64  `json:"amount" binding:"required"`
	Method        string `json:"method" binding:"required"`
	TransactionID string `json:"transaction_id"`
	ProcessedBy   string `json:"processed_by"`
}

// @Summary      Apply Payment
// @Description  Record a payment against an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID  header  string  true  "Tenant ID"
// @Param        id   path      string  true  "Invoice ID"
// @Param        request body applyPaymentRequest true "Apply Payment Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id}/payments [post]
func (s *Server) ApplyPayment(c *gin.Context) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_invoice_id", "invalid invoice id"))
		return
	}

	var req applyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.ApplyPayment(c.Request.Context(), invoicedomain.ApplyPaymentRequest{
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		Method:        strings.TrimSpace(req.Method),
		TransactionID: strings.TrimSpace(req.TransactionID),
		ProcessedBy:   strings.TrimSpace(req.ProcessedBy),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Invoice
// @Description  Get an invoice with its lines, discounts and payment history
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID  header  string  true  "Tenant ID"
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoice(c *gin.Context) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_invoice_id", "invalid invoice id"))
		return
	}

	resp, err := s.invoiceSvc.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Invoices
// @Description  List invoices filtered by student, class, status or month
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID  header  string  true   "Tenant ID"
// @Param        student_id   query   string  false  "Student ID"
// @Param        class_id     query   string  false  "Class ID"
// @Param        status       query   string  false  "Status"
// @Param        month_key    query   string  false  "Month Key (YYYY-MM)"
// @Param        page_token   query   string  false  "Page Token"
// @Param        page_size    query   int     false  "Page Size"
// @Success      200  {object}  invoicedomain.ListInvoicesResponse
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		StudentID string `form:"student_id"`
		ClassID   string `form:"class_id"`
		Status    string `form:"status"`
		MonthKey  string `form:"month_key"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	studentID, err := parseOptionalID(query.StudentID)
	if err != nil {
		AbortWithError(c, newValidationError("student_id", "invalid_student_id", "invalid student id"))
		return
	}
	classID, err := parseOptionalID(query.ClassID)
	if err != nil {
		AbortWithError(c, newValidationError("class_id", "invalid_class_id", "invalid class id"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoicesRequest{
		Pagination: query.Pagination,
		StudentID:  studentID,
		ClassID:    classID,
		Status:     invoicedomain.InvoiceStatus(strings.TrimSpace(query.Status)),
		MonthKey:   strings.TrimSpace(query.MonthKey),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalID(raw string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	return snowflake.ParseString(trimmed)
}
