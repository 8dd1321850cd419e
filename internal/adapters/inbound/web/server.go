// Package web serves the analysis and refactor pipeline over HTTP, with a
// websocket log stream and Prometheus metrics.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codejanitor/janitor/internal/bootstrap"
	"github.com/codejanitor/janitor/internal/domain"
)

const defaultHeartbeat = 2 * time.Second

type Options struct {
	// ProjectPath is the project whose configuration and history the API uses.
	ProjectPath string
	ConfigFile  string
	Version     string
	// Logger receives server logs. They are also streamed on /ws/logs.
	Logger    *slog.Logger
	Heartbeat time.Duration
	// Provider overrides the configured completion provider.
	Provider domain.CompletionProvider
}

type Server struct {
	opts    Options
	engine  *gin.Engine
	hub     *LogHub
	logger  *slog.Logger
	metrics *metrics
	started time.Time

	quit     chan struct{}
	quitOnce sync.Once
}

func NewServer(opts Options) *Server {
	if opts.ProjectPath == "" {
		opts.ProjectPath = "."
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = defaultHeartbeat
	}
	base := opts.Logger
	if base == nil {
		base = slog.Default()
	}

	hub := NewLogHub()
	s := &Server{
		opts:    opts,
		hub:     hub,
		logger:  slog.New(hub.Handler(base.Handler())),
		metrics: newMetrics(),
		started: time.Now(),
		quit:    make(chan struct{}),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe)

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	r.GET("/ws/logs", s.handleLogs)

	api := r.Group("/api")
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/refactor", s.handleRefactor)
	api.GET("/history", s.handleHistory)
	return r
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Logger returns the logger whose records are streamed to websocket clients.
func (s *Server) Logger() *slog.Logger { return s.logger }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr, "project", s.opts.ProjectPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("web server stopped")
	return nil
}

// Close ends open websocket streams.
func (s *Server) Close() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()
	s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	s.metrics.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	if route != "/metrics" && route != "/healthz" {
		s.logger.Debug("request", "method", c.Request.Method, "route", route, "status", status, "duration", time.Since(start))
	}
}

func (s *Server) app() (*bootstrap.App, error) {
	return bootstrap.New(bootstrap.Options{
		Target:     s.opts.ProjectPath,
		ConfigFile: s.opts.ConfigFile,
		Logger:     s.logger,
		Provider:   s.opts.Provider,
	})
}
