// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/louisbranch/dualidade/internal/dice"
	entrypoint "github.com/louisbranch/dualidade/internal/platform/cmd"
	"github.com/louisbranch/dualidade/internal/platform/config"
	"github.com/louisbranch/dualidade/internal/platform/id"
	"github.com/louisbranch/dualidade/internal/random"
	"github.com/louisbranch/dualidade/internal/roller"
	mcpservice "github.com/louisbranch/dualidade/internal/services/mcp/service"
	"github.com/louisbranch/dualidade/internal/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr  string `env:"DUALIDADE_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport string `env:"DUALIDADE_MCP_TRANSPORT" envDefault:"stdio"`
	DBPath    string `env:"DUALIDADE_DB_PATH"       envDefault:"data/dualidade.db"`
	ProfileID string `env:"DUALIDADE_PROFILE_ID"    envDefault:"local"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWithLookup(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.ProfileID, "profile", cfg.ProfileID, "character profile id")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter. Rolls made here settle in this
// process; the character sheet is read from the shared store.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		source, err := random.NewSeededSource()
		if err != nil {
			return fmt.Errorf("seed dice: %w", err)
		}
		controller := roller.New(dice.NewEngine(source, time.Now, id.NewID), roller.NewTickerScheduler())
		defer controller.Close()

		return mcpservice.Run(ctx, mcpservice.Config{
			Transport: mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
			ProfileID: cfg.ProfileID,
		}, mcpservice.Dependencies{
			Rolls:  controller,
			Sheets: store,
		})
	})
}
