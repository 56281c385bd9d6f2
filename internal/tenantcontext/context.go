package tenantcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey string

const (
	tenantIDKey       contextKey = "tenant_id"
	academicYearIDKey contextKey = "academic_year_id"
)

// WithTenant attaches the resolved billing scope to the context. The values
// come from the external auth/session layer; this package only carries them.
func WithTenant(ctx context.Context, tenantID, academicYearID snowflake.ID) context.Context {
	if tenantID != 0 {
		ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	}
	if academicYearID != 0 {
		ctx = context.WithValue(ctx, academicYearIDKey, academicYearID)
	}
	return ctx
}

func TenantIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	value, ok := ctx.Value(tenantIDKey).(snowflake.ID)
	return value, ok && value != 0
}

func AcademicYearIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}
	value, ok := ctx.Value(academicYearIDKey).(snowflake.ID)
	return value, ok && value != 0
}
