package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service resolves the fee structure for a billing scope. Absence is a
// NotFound condition that aborts generation for the whole scope.
type Service interface {
	FindForScope(ctx context.Context, tenantID, classID, academicYearID snowflake.ID) (*FeeStructure, error)
}
