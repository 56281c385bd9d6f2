package feecatalog

import (
	"github.com/smallbiznis/scholara/internal/feecatalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feecatalog.service",
	fx.Provide(service.NewService),
)
