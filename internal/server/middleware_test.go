package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/scholara/internal/invoice/domain"
	"github.com/smallbiznis/scholara/internal/tenantcontext"
)

func TestTenantMiddlewareInjectsScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(tenantMiddleware())
	engine.GET("/probe", func(c *gin.Context) {
		tenantID, ok := tenantcontext.TenantIDFromContext(c.Request.Context())
		if !ok {
			c.String(http.StatusInternalServerError, "missing tenant")
			return
		}
		yearID, _ := tenantcontext.AcademicYearIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID.String(), "academic_year_id": yearID.String()})
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Tenant-ID", "12345")
	req.Header.Set("X-Academic-Year-ID", "678")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTenantMiddlewareRejectsMissingTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(tenantMiddleware())
	engine.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTenantMiddlewareRejectsMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(tenantMiddleware())
	engine.GET("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Tenant-ID", "not-a-number")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestToAPIErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{invoicedomain.ErrInvoiceNotFound, http.StatusNotFound},
		{invoicedomain.ErrInvalidAmount, http.StatusBadRequest},
		{invoicedomain.ErrInvalidTenant, http.StatusUnauthorized},
		{invoicedomain.ErrConcurrentUpdate, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := toAPIError(tc.err); got.Status != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, got.Status)
		}
	}
}
