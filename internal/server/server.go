// Package server assembles the HTTP router and runs the API server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/config"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/modulemanager"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

// Options carries everything the server wires into the router
type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Bus      events.EventBus
	Metrics  *metrics.Metrics
	Registry *modulemanager.ModuleRegistry
	Services *services.ServiceRegistry
	Logger   hclog.Logger
	Version  string
}

// Server is the lineup HTTP server
type Server struct {
	opts    Options
	router  *gin.Engine
	http    *http.Server
	started time.Time
	logger  hclog.Logger
}

// New builds the router for loaded modules
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.Bus == nil {
		opts.Bus = events.NopBus{}
	}
	if opts.Services == nil {
		opts.Services = services.Global()
	}

	s := &Server{
		opts:    opts,
		started: time.Now(),
		logger:  opts.Logger.Named("server"),
	}
	s.router = s.setupRouter()

	cfg := opts.Config.Server
	s.http = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
	return s
}

// Router returns the configured router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.http.Addr, "version", s.opts.Version)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}

// logModuleStatus logs the loaded modules
func (s *Server) logModuleStatus() {
	if s.opts.Registry == nil {
		return
	}
	modules := s.opts.Registry.ListModules()
	s.logger.Info("module system initialized", "count", len(modules))
	for _, m := range modules {
		s.logger.Info("module", "id", m.ID(), "name", m.Name(), "core", m.Core())
	}
}
