// Package companion parses companion command flags and composes the roller,
// storage and HTTP server.
package companion

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
	server "github.com/louisbranch/dualidade/internal/services/companion"
	"github.com/louisbranch/dualidade/internal/storage/sqlite"
)

// Config holds companion command configuration.
type Config struct {
	HTTPAddr  string `env:"DUALIDADE_HTTP_ADDR"  envDefault:"localhost:8080"`
	DBPath    string `env:"DUALIDADE_DB_PATH"    envDefault:"data/dualidade.db"`
	ProfileID string `env:"DUALIDADE_PROFILE_ID" envDefault:"local"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWithLookup(&cfg, lookup); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.ProfileID, "profile", cfg.ProfileID, "character profile id")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens storage, starts the roll controller and serves HTTP until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCompanion, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		controller, err := newController()
		if err != nil {
			return err
		}
		defer controller.Close()

		if err := server.Run(ctx, server.Config{
			HTTPAddr:  cfg.HTTPAddr,
			ProfileID: cfg.ProfileID,
		}, server.Dependencies{
			Controller: controller,
			Store:      store,
			NewID:      id.NewID,
			Now:        time.Now,
		}); err != nil {
			return fmt.Errorf("serve companion: %w", err)
		}
		return nil
	})
}

func newController() (*roller.Controller, error) {
	source, err := random.NewSeededSource()
	if err != nil {
		return nil, fmt.Errorf("seed dice: %w", err)
	}
	engine := dice.NewEngine(source, time.Now, id.NewID)
	return roller.New(engine, roller.NewTickerScheduler()), nil
}
