// Package server assembles the TamaOS HTTP service: device, registry,
// middleware, and routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/tamaos/tamaos/internal/api/http"
	"github.com/tamaos/tamaos/internal/api/middleware"
	"github.com/tamaos/tamaos/internal/api/ws"
	"github.com/tamaos/tamaos/internal/config"
	coredevice "github.com/tamaos/tamaos/internal/device"
	"github.com/tamaos/tamaos/internal/logging"
	"github.com/tamaos/tamaos/internal/monitoring"
	archiveprovider "github.com/tamaos/tamaos/internal/providers/archive"
	deviceprovider "github.com/tamaos/tamaos/internal/providers/device"
	stateprovider "github.com/tamaos/tamaos/internal/providers/state"
	vfsprovider "github.com/tamaos/tamaos/internal/providers/vfs"
	"github.com/tamaos/tamaos/internal/service"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	device   *coredevice.Device
	registry *service.Registry
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	httpSrv  *http.Server
}

// New creates a server instance from loaded configuration. The VFS and
// log directories must already exist (boot runs first).
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing TamaOS server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("vfs", cfg.Paths.VFS),
		zap.String("skin", cfg.Skin.Mode),
	)

	metrics := monitoring.NewMetrics()
	dev := coredevice.New()
	logger.Info("Century-life device created", zap.String("device_id", dev.State().ID.String()))

	registry := service.NewRegistry()
	providers := []service.Provider{
		deviceprovider.NewProvider(dev),
		vfsprovider.NewProvider(cfg.Paths.VFS),
		stateprovider.NewProvider(cfg.Paths.VFS, dev),
		archiveprovider.NewProvider(cfg.Paths.VFS, cfg.Paths.Logs),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
		logger.Info("Registered service provider", zap.String("service", p.Definition().ID))
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}
		// Process-wide cap first, then per-IP fairness under it.
		router.Use(middleware.GlobalRateLimit(limits))
		router.Use(middleware.RateLimit(limits))
	}

	handlers := apihttp.NewHandlers(cfg, dev, registry, metrics)
	wsHandler := ws.NewHandler(dev, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/config", handlers.GetConfig)

	// Device operations
	router.GET("/device", handlers.GetDevice)
	router.POST("/device/tick", handlers.TickDevice)
	router.GET("/device/stats", handlers.DeviceStats)

	// Service registry
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", func(c *gin.Context) {
		promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}).
			ServeHTTP(c.Writer, c.Request)
	})

	logger.Info("Server initialized successfully")

	return &Server{
		cfg:      cfg,
		router:   router,
		device:   dev,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Router exposes the gin engine, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Device exposes the wired device, for tests.
func (s *Server) Device() *coredevice.Device {
	return s.device
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down")
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
