package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.ProfileID != "local" {
		t.Fatalf("expected default profile, got %q", cfg.ProfileID)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	lookup := func(key string) (string, bool) {
		switch key {
		case "DUALIDADE_MCP_HTTP_ADDR":
			return "env-http", true
		case "DUALIDADE_DB_PATH":
			return "env.db", true
		default:
			return "", false
		}
	}
	args := []string{"-http-addr", "flag-http", "-transport", "http"}
	cfg, err := ParseConfig(fs, args, lookup)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
}
