// Package companion serves the dice roller, character sheet and notes over
// HTTP, with a websocket feed of roll animation frames.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/dualidade/internal/character"
	platformotel "github.com/louisbranch/dualidade/internal/platform/otel"
	"github.com/louisbranch/dualidade/internal/platform/timeouts"
	"github.com/louisbranch/dualidade/internal/roller"
	"github.com/louisbranch/dualidade/internal/services/shared/httpx"
	"github.com/louisbranch/dualidade/internal/services/shared/i18nhttp"
	"github.com/louisbranch/dualidade/internal/storage"
)

const tracerName = "github.com/louisbranch/dualidade/internal/services/companion"

// Config defines the companion HTTP inputs.
type Config struct {
	HTTPAddr          string
	ProfileID         string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Dependencies are the collaborators the companion serves.
type Dependencies struct {
	Controller *roller.Controller
	Store      Store
	// NewID generates ids for new sheet entries.
	NewID character.IDFunc
	Now   func() time.Time
}

// Server hosts the companion HTTP process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

// NewHandler builds the companion routes behind the shared middleware.
func NewHandler(profileID string, deps Dependencies) (http.Handler, error) {
	if deps.Controller == nil {
		return nil, errors.New("roll controller is required")
	}
	if deps.Store == nil {
		return nil, errors.New("store is required")
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		profileID = storage.DefaultProfileID
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	h := &handlers{
		controller: deps.Controller,
		sheets:     newSheetService(deps.Store, profileID, deps.NewID, now),
		notes:      &notesService{store: deps.Store, profileID: profileID, now: now},
		tracer:     platformotel.Tracer(tracerName),
	}
	mux := http.NewServeMux()
	registerRoutes(mux, h)
	return httpx.Chain(mux, httpx.RecoverPanic(), httpx.RequestID(), i18nhttp.Middleware), nil
}

// NewServer builds a configured companion server.
func NewServer(config Config, deps Dependencies) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = timeouts.ReadHeader
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = timeouts.Shutdown
	}
	handler, err := NewHandler(config.ProfileID, deps)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpAddr:        httpAddr,
		shutdownTimeout: config.ShutdownTimeout,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
		},
	}, nil
}

// Run creates and serves a companion server until the context ends.
func Run(ctx context.Context, config Config, deps Dependencies) error {
	server, err := NewServer(config, deps)
	if err != nil {
		return fmt.Errorf("init companion server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve companion: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("companion server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("companion server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	if err := s.httpServer.Close(); err != nil {
		log.Printf("close companion http server: %v", err)
	}
}
