package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port   int    `env:"DUALIDADE_TEST_PORT" envDefault:"123"`
	DBPath string `env:"DUALIDADE_TEST_DB_PATH" envDefault:"data/test.db"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUALIDADE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithLookup(t *testing.T) {
	var cfg envTestConfig
	lookup := func(key string) (string, bool) {
		if key == "DUALIDADE_TEST_DB_PATH" {
			return "/tmp/sheet.db", true
		}
		return "", false
	}

	if err := ParseEnvWithLookup(&cfg, lookup); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "/tmp/sheet.db" {
		t.Fatalf("expected lookup db path, got %q", cfg.DBPath)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}
