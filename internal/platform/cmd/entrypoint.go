// Package cmd holds the startup plumbing shared by the companion binaries.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/dualidade/internal/platform/otel"
	"github.com/louisbranch/dualidade/internal/platform/timeouts"
)

// Service names reported to tracing and used as log prefixes.
const (
	ServiceCompanion = "companion"
	ServiceMCP       = "mcp"
)

// ParseArgs parses command-line flags. A nil args slice parses nothing.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry sets up tracing for service, runs run and flushes spans
// once it returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
