package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/scholara/internal/invoice/domain"
	"github.com/smallbiznis/scholara/internal/tenantcontext"
)

// @Summary      Get Fee Structure
// @Description  Get the fee catalog for a class in the scoped academic year
// @Tags         fee-structures
// @Produce      json
// @Param        X-Tenant-ID         header  string  true  "Tenant ID"
// @Param        X-Academic-Year-ID  header  string  true  "Academic Year ID"
// @Param        class_id            query   string  true  "Class ID"
// @Success      200  {object}  feecatalogdomain.FeeStructure
// @Router       /fee-structures [get]
func (s *Server) GetFeeStructure(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID, ok := tenantcontext.TenantIDFromContext(ctx)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	yearID, ok := tenantcontext.AcademicYearIDFromContext(ctx)
	if !ok {
		AbortWithError(c, invoicedomain.ErrInvalidAcademicYear)
		return
	}

	classID, err := parseOptionalID(c.Query("class_id"))
	if err != nil || classID == 0 {
		AbortWithError(c, newValidationError("class_id", "invalid_class_id", "class id is required"))
		return
	}

	structure, err := s.catalogSvc.FindForScope(ctx, tenantID, classID, yearID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": structure})
}

// @Summary      Run Late Fee Sweep
// @Description  Apply late fees to overdue invoices, at most once each
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /late-fee-sweep [post]
func (s *Server) RunLateFeeSweep(c *gin.Context) {
	updated, err := s.sweep.Run(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": updated}})
}
