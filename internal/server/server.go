// Package server exposes a country store over HTTP for the autocomplete lookup.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nhath/ezcomplete/internal/countries"
	"github.com/nhath/ezcomplete/internal/logging"
)

const (
	defaultLimit    = 10
	shutdownTimeout = 5 * time.Second
)

// Options configures the server
type Options struct {
	Addr           string
	AllowedOrigins []string
	ResultLimit    int
	Logger         *log.Logger
}

// Server answers prefix lookups from a countries.Store
type Server struct {
	store  countries.Store
	opts   Options
	logger *log.Logger
	engine *gin.Engine
}

// New builds the router around store
func New(store countries.Store, opts Options) *Server {
	if opts.ResultLimit <= 0 {
		opts.ResultLimit = defaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{store: store, opts: opts, logger: logger}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowWildcard = true
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	corsConfig.AllowHeaders = []string{"Accept", "Content-Type", "X-Requested-With"}
	if len(s.opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = s.opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		requestLogger(s.logger),
		cors.New(corsConfig),
	)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.HEAD("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/countries", s.CountriesHandler)

	return r
}

// CountriesHandler serves GET /countries?matching=prefix as a JSON array
func (s *Server) CountriesHandler(c *gin.Context) {
	prefix := c.Query("matching")

	matches, err := s.store.Match(c.Request.Context(), prefix, s.opts.ResultLimit)
	if err != nil {
		s.logger.Error("country lookup failed", "matching", prefix, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if matches == nil {
		matches = []countries.Country{}
	}
	c.JSON(http.StatusOK, matches)
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and shuts down gracefully when ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
