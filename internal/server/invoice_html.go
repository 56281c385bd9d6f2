package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/scholara/internal/invoice/render"
	"github.com/smallbiznis/scholara/internal/tenantcontext"
)

// @Summary      Render Invoice
// @Description  Render a printable HTML fee receipt for an invoice
// @Tags         invoices
// @Produce      html
// @Param        X-Tenant-ID  header  string  true  "Tenant ID"
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {string}  string
// @Router       /invoices/{id}/html [get]
func (s *Server) RenderInvoice(c *gin.Context) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_invoice_id", "invalid invoice id"))
		return
	}

	ctx := c.Request.Context()
	inv, err := s.invoiceSvc.GetInvoice(ctx, invoiceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	input := render.RenderInput{
		Invoice: render.InvoiceView{
			ID:             inv.ID.String(),
			MonthKey:       inv.MonthKey,
			Status:         string(inv.Status),
			DueDate:        inv.DueDate,
			BaseAmount:     inv.BaseAmount,
			CurrentCharges: inv.CurrentCharges,
			PreviousDue:    inv.PreviousDue,
			LateFee:        inv.LateFee,
			TotalAmount:    inv.TotalAmount,
			PaidAmount:     inv.PaidAmount,
			RemainingDue:   inv.RemainingDue,
		},
	}
	if tenantID, ok := tenantcontext.TenantIDFromContext(ctx); ok {
		if tenant, err := s.tenants.FindByID(ctx, tenantID); err == nil {
			input.School.Name = tenant.Name
		}
		if student, err := s.students.FindByID(ctx, tenantID, inv.StudentID); err == nil {
			input.Student.Name = student.Name
		}
	}
	for _, line := range inv.Lines {
		input.Lines = append(input.Lines, render.LineView{
			Name:     line.Name,
			Category: string(line.Category),
			Amount:   line.Amount,
		})
	}
	for _, discount := range inv.Discounts {
		input.Lines = append(input.Lines, render.LineView{
			Name:     discount.Name,
			Category: "discount",
			Amount:   -discount.Amount,
		})
	}
	for _, payment := range inv.Payments {
		input.Payments = append(input.Payments, render.PaymentView{
			PaidAt: payment.PaidAt,
			Amount: payment.Amount,
			Method: payment.Method,
		})
	}

	html, err := s.renderer.RenderHTML(input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
