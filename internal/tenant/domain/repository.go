package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrTenantNotFound = errors.New("tenant_not_found")

// Repository is the read-only tenant lookup used by the billing engine.
type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Tenant, error)
}
