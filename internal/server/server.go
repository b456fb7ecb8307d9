package server

import (
	"analytics-proxy/internal/config"
	"analytics-proxy/internal/data"
	"analytics-proxy/internal/metrics"
	"analytics-proxy/internal/middlewares"
	"analytics-proxy/internal/plausible"
	"analytics-proxy/internal/version"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	logCloser   io.Closer
	appCtx      *middlewares.AppContext
	httpServer  *http.Server
	debugServer *http.Server
	cache       data.CacheProvider
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger, logCloser, err := setupLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	cache, err := data.NewCacheProvider(cfg, logger)
	if err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to set up cache provider: %w", err)
	}

	if redisCache, ok := cache.(*data.RedisCache); ok && cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		collector := redisprometheus.NewCollector(metrics.Namespace, "cache", redisCache)
		if err := prometheus.Register(collector); err != nil {
			logger.Debug("failed to register redis cache collector: already registered", "error", err)
		}
	}

	client := plausible.NewClient(cfg.Plausible, logger)

	instanceID := os.Getenv("HOSTNAME")
	if instanceID == "" {
		instanceID = uuid.New().String()
	}

	ctx, cancel := context.WithCancel(context.Background())
	appCtx := middlewares.NewAppContext(ctx, cfg, logger, cache, client, instanceID)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           setupRouter(appCtx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(appCtx),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		logCloser:   logCloser,
		appCtx:      appCtx,
		httpServer:  server,
		debugServer: debugServer,
		cache:       cache,
		cancel:      cancel,
	}, nil
}

// Start serves until SIGINT/SIGTERM or a listener failure, then shuts down gracefully.
func (s *Server) Start() error {
	defer s.logCloser.Close()

	go func() {
		s.logger.Info("Server Started",
			"port", s.cfg.Server.Port,
			"mode", s.cfg.Server.Mode,
			"version", version.GetVersion(),
			"instance", s.appCtx.InstanceID,
			"cache", s.cfg.Cache.Type,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Debug server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Debug server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	if err := s.cache.Close(); err != nil {
		s.logger.Error("failed to close cache", "error", err)
	}

	s.cancel()
	s.logger.Info("Server Exited")
	return nil
}
