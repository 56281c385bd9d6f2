package academicyear

import (
	"github.com/smallbiznis/scholara/internal/academicyear/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("academicyear",
	fx.Provide(repository.New),
)
