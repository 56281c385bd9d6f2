// @title           Scholara API
// @version         1.0
// @description     Scholara School Fee Billing API

// @host      localhost:8080
// @BasePath  /api
// @Schemes 	http https

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/scholara/internal/academicyear"
	"github.com/smallbiznis/scholara/internal/audit"
	"github.com/smallbiznis/scholara/internal/clock"
	"github.com/smallbiznis/scholara/internal/config"
	"github.com/smallbiznis/scholara/internal/feecatalog"
	"github.com/smallbiznis/scholara/internal/invoice"
	"github.com/smallbiznis/scholara/internal/latefee"
	"github.com/smallbiznis/scholara/internal/migration"
	"github.com/smallbiznis/scholara/internal/notification"
	"github.com/smallbiznis/scholara/internal/observability/logger"
	"github.com/smallbiznis/scholara/internal/scheduler"
	"github.com/smallbiznis/scholara/internal/seed"
	"github.com/smallbiznis/scholara/internal/server"
	"github.com/smallbiznis/scholara/internal/student"
	"github.com/smallbiznis/scholara/internal/tenant"
	"github.com/smallbiznis/scholara/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			if cfg.IsProduction() {
				return nil
			}
			return seed.EnsureDefaultTenant(conn)
		}),

		tenant.Module,
		academicyear.Module,
		student.Module,
		feecatalog.Module,
		audit.Module,
		notification.Module,
		invoice.Module,
		latefee.Module,
		scheduler.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
