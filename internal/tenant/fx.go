package tenant

import (
	"github.com/smallbiznis/scholara/internal/tenant/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant",
	fx.Provide(repository.NewRepository),
)
