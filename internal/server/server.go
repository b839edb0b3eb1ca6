// Package server exposes the enrichment handler over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campaign-enricher/internal/common/config"
	"campaign-enricher/internal/common/logger"
	ecd "campaign-enricher/internal/workers/campaign/enrich-campaign-data"
)

// Executor serves one enrichment request.
type Executor interface {
	Execute(ctx context.Context, input *ecd.Input) (*ecd.Output, error)
}

// ReadyFunc reports whether the service's backends are reachable.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	config   config.ServerConfig
	executor Executor
	ready    ReadyFunc
	logger   logger.Logger
	router   *gin.Engine
}

func New(cfg config.ServerConfig, executor Executor, ready ReadyFunc, log logger.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}

	s := &Server{
		config:   cfg,
		executor: executor,
		ready:    ready,
		logger:   log.WithFields(map[string]interface{}{"component": "http"}),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the HTTP handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(s.logger))
	router.Use(gin.Recovery())

	router.GET("/health", s.health)
	router.GET("/ready", s.readiness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.POST("/campaigns/enrich", s.enrich)
	v1.POST("/events", s.event)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "path": c.Request.URL.Path})
	})
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address(),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.config.ReadTimeout),
		WriteTimeout: config.GetDuration(s.config.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(s.config))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func shutdownTimeout(cfg config.ServerConfig) time.Duration {
	if cfg.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return config.GetDuration(cfg.ShutdownTimeout)
}
