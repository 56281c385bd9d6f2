package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/scholara/internal/config"
	feecatalogdomain "github.com/smallbiznis/scholara/internal/feecatalog/domain"
	invoicedomain "github.com/smallbiznis/scholara/internal/invoice/domain"
	"github.com/smallbiznis/scholara/internal/invoice/render"
	"github.com/smallbiznis/scholara/internal/latefee"
	studentdomain "github.com/smallbiznis/scholara/internal/student/domain"
	tenantdomain "github.com/smallbiznis/scholara/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg        config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	Engine     *gin.Engine
	InvoiceSvc invoicedomain.Service
	CatalogSvc feecatalogdomain.Service
	Students   studentdomain.Directory
	Tenants    tenantdomain.Repository
	Sweep      *latefee.Sweep
}

type Server struct {
	cfg        config.Config
	db         *gorm.DB
	log        *zap.Logger
	engine     *gin.Engine
	invoiceSvc invoicedomain.Service
	catalogSvc feecatalogdomain.Service
	students   studentdomain.Directory
	tenants    tenantdomain.Repository
	sweep      *latefee.Sweep
	renderer   render.Renderer
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("monthname", func(fl validator.FieldLevel) bool {
			_, err := invoicedomain.ParseMonthName(fl.Field().String())
			return err == nil
		})
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))
	return engine
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:        p.Cfg,
		db:         p.DB,
		log:        p.Log.Named("server"),
		engine:     p.Engine,
		invoiceSvc: p.InvoiceSvc,
		catalogSvc: p.CatalogSvc,
		students:   p.Students,
		tenants:    p.Tenants,
		sweep:      p.Sweep,
		renderer:   render.NewRenderer(),
	}
}

func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", s.Healthz)

	api := s.engine.Group("/api")
	api.Use(rateLimitMiddleware())
	api.Use(tenantMiddleware())
	{
		api.POST("/invoices/generate", s.GenerateInvoices)
		api.GET("/invoices", s.ListInvoices)
		api.GET("/invoices/:id", s.GetInvoice)
		api.GET("/invoices/:id/html", s.RenderInvoice)
		api.POST("/invoices/:id/payments", s.ApplyPayment)
		api.GET("/fee-structures", s.GetFeeStructure)
	}

	admin := s.engine.Group("/admin")
	admin.POST("/late-fee-sweep", s.RunLateFeeSweep)
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
