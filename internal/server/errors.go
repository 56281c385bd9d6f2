package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	academicyeardomain "github.com/smallbiznis/scholara/internal/academicyear/domain"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
	invoicedomain "github.com/smallbiznis/scholara/internal/invoice/domain"
	studentdomain "github.com/smallbiznis/scholara/internal/student/domain"
	tenantdomain "github.com/smallbiznis/scholara/internal/tenant/domain"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e apiError) Error() string { return e.Message }

var (
	ErrNotFound           = apiError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrUnauthorized       = apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthorized"}
	ErrServiceUnavailable = apiError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "service unavailable"}
)

func invalidRequestError() apiError {
	return apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request payload"}
}

func newValidationError(field, code, message string) apiError {
	return apiError{Status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

// AbortWithError maps a domain error onto an HTTP response and stops the
// handler chain.
func AbortWithError(c *gin.Context, err error) {
	api := toAPIError(err)
	c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
}

func toAPIError(err error) apiError {
	var api apiError
	if errors.As(err, &api) {
		return api
	}

	switch {
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, feecatalogdomain.ErrFeeStructureNotFound),
		errors.Is(err, studentdomain.ErrStudentNotFound),
		errors.Is(err, studentdomain.ErrNoStudentsInScope),
		errors.Is(err, academicyeardomain.ErrAcademicYearNotFound),
		errors.Is(err, tenantdomain.ErrTenantNotFound):
		return apiError{Status: http.StatusNotFound, Code: err.Error(), Message: err.Error()}
	case errors.Is(err, invoicedomain.ErrInvalidTenant),
		errors.Is(err, invoicedomain.ErrInvalidAcademicYear):
		return apiError{Status: http.StatusUnauthorized, Code: err.Error(), Message: "missing billing scope"}
	case errors.Is(err, invoicedomain.ErrInvalidClass),
		errors.Is(err, invoicedomain.ErrInvalidMonth),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceID),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidMethod),
		errors.Is(err, feecatalogdomain.ErrEmptySpecificMonths),
		errors.Is(err, feecatalogdomain.ErrInvalidEntryAmount):
		return apiError{Status: http.StatusBadRequest, Code: err.Error(), Message: err.Error()}
	case errors.Is(err, invoicedomain.ErrDuplicateInvoice),
		errors.Is(err, invoicedomain.ErrConcurrentUpdate):
		return apiError{Status: http.StatusConflict, Code: err.Error(), Message: err.Error()}
	default:
		return apiError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal error"}
	}
}
