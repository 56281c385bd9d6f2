package logger

import (
	"github.com/smallbiznis/scholara/internal/config"
	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Production gets JSON output,
// everything else gets the development console encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
