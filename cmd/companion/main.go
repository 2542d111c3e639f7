package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	companioncmd "github.com/louisbranch/dualidade/internal/cmd/companion"
	"github.com/louisbranch/dualidade/internal/platform/config"
)

// main starts the companion web server.
func main() {
	cfg, err := companioncmd.ParseConfig(flag.CommandLine, os.Args[1:], os.LookupEnv)
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[COMPANION] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := companioncmd.Run(ctx, cfg); err != nil {
		log.Fatalf("companion stopped: %v", err)
	}
}
