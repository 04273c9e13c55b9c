package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/deltaphys/errorlab/backend/internal/config"
	"github.com/deltaphys/errorlab/backend/internal/engine"
	apihttp "github.com/deltaphys/errorlab/backend/internal/http"
	"github.com/deltaphys/errorlab/backend/internal/logging"
	"github.com/deltaphys/errorlab/backend/internal/middleware"
	"github.com/deltaphys/errorlab/backend/internal/monitoring"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router *gin.Engine
	srv    *http.Server
	log    *logging.Logger
}

// New assembles the router, middleware stack and handlers from cfg.
func New(cfg *config.Config, log *logging.Logger) *Server {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(registry)

	eng := engine.NewService(engine.Config{
		DefaultPrecision:    cfg.Engine.DefaultPrecision,
		MaxExpressionLength: cfg.Engine.MaxExpressionLength,
	}, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := apihttp.NewHandlers(eng, metrics, log, cfg.Server.CalcTimeout)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.POST("/parse", handlers.Parse)
	router.POST("/calculate", handlers.Calculate)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &Server{
		router: router,
		srv: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
		},
		log: log,
	}
}

// Router exposes the assembled handler, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Run starts serving and blocks until the listener closes.
func (s *Server) Run() error {
	s.log.Info("starting server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
