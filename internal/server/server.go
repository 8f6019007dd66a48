package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"coursespider/internal/collector"
	"coursespider/internal/config"
	"coursespider/internal/jobs"
	"coursespider/internal/logging"
	"coursespider/internal/store"
)

// Server wires the HTTP surface together.
type Server struct {
	cfg       *config.Config
	store     *store.Store
	registry  *jobs.Registry
	collector *collector.Collector
	logger    *slog.Logger

	httpServer *http.Server
	listener   net.Listener
}

func New(cfg *config.Config, st *store.Store, registry *jobs.Registry, col *collector.Collector, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		registry:  registry,
		collector: col,
		logger:    logging.WithComponent(logger, "api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/courses", s.handleCourses)
	mux.HandleFunc("/api/courses/", s.handleCourseItem)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/languages", s.handleLanguages)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/filters", s.handleFilters)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/collect", s.handleCollect)
	mux.HandleFunc("/api/collect/status/", s.handleCollectStatus)
	mux.HandleFunc("/api/health", s.handleHealth)
	if dir := strings.TrimSpace(cfg.Paths.StaticDir); dir != "" {
		mux.Handle("/", staticHandler(dir))
	}

	s.httpServer = &http.Server{
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the fully assembled handler chain, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving on the configured bind address. The server shuts
// down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down outside of context cancellation.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Paths.APIBind
}
