package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dualidade/internal/platform/branding"
	"github.com/louisbranch/dualidade/internal/platform/timeouts"
	"github.com/louisbranch/dualidade/internal/services/mcp/domain"
	"github.com/louisbranch/dualidade/internal/storage"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves the streamable HTTP transport for remote clients.
	TransportHTTP TransportKind = "http"
)

// defaultHTTPAddr keeps the HTTP transport local unless configured.
const defaultHTTPAddr = "localhost:8081"

// Config configures the MCP server process.
type Config struct {
	Transport TransportKind
	HTTPAddr  string
	ProfileID string
}

// Dependencies are the collaborators the tools call.
type Dependencies struct {
	Rolls  domain.RollService
	Sheets domain.SheetReader
}

// Server wraps the MCP server and its tool registrations.
type Server struct {
	mcpServer *mcp.Server
}

// NewServer registers every tool against deps.
func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Rolls == nil {
		return nil, errors.New("roll service is required")
	}
	profileID := strings.TrimSpace(cfg.ProfileID)
	if profileID == "" {
		profileID = storage.DefaultProfileID
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerRollTools(mcpServer, deps, profileID)
	registerDualityTools(mcpServer)
	registerCharacterTools(mcpServer, deps, profileID)
	return &Server{mcpServer: mcpServer}, nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	server, err := NewServer(cfg, deps)
	if err != nil {
		return err
	}
	switch cfg.Transport {
	case TransportStdio:
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return server.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport runs the MCP server over transport. Context
// cancellation is a clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Handler exposes the streamable HTTP transport at /mcp with a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
	mux.Handle("/mcp", streamable)
	mux.HandleFunc(http.MethodGet+" /mcp/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	log.Printf("mcp http transport listening on %s", addr)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown mcp http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve mcp http: %w", err)
	}
}
