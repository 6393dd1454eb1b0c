package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wandson/product-ms/internal/config"
	"github.com/wandson/product-ms/internal/observability"
	obslogger "github.com/wandson/product-ms/internal/observability/logger"
	obsmetrics "github.com/wandson/product-ms/internal/observability/metrics"
	productdomain "github.com/wandson/product-ms/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		AbortWithError(c, fmt.Errorf("panic: %v", recovered))
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.Status(http.StatusMethodNotAllowed)
		c.Abort()
	})
	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, &routeNotFoundError{Path: c.Request.URL.Path})
	})

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	log        *zap.Logger
	productSvc productdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	ProductSvc productdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		log:        p.Log.Named("http.server"),
		productSvc: p.ProductSvc,
	}

	s.engine.GET("/health", s.Health)
	s.registerProductRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Health reports readiness. It pings the store so a broken connection pool
// surfaces as 503 instead of failing on the first real query.
func (s *Server) Health(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		s.log.Warn("store ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) registerProductRoutes() {
	products := s.engine.Group("/products")

	products.POST("", s.CreateProduct)
	products.GET("", s.ListProducts)
	products.GET("/search", s.SearchProducts)
	products.GET("/:id", s.GetProductByID)
	products.PUT("/:id", s.UpdateProduct)
	products.DELETE("/:id", s.DeleteProduct)
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
