package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Repository is the read-only academic year lookup used during generation.
type Repository interface {
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*AcademicYear, error)
}
