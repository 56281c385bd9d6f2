package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Directory is the read-only student lookup consumed by the billing engine.
type Directory interface {
	FindByID(ctx context.Context, tenantID, id snowflake.ID) (*Student, error)
	ListByClass(ctx context.Context, tenantID, classID snowflake.ID) ([]Student, error)
}
