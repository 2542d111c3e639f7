// Package config loads process configuration from the environment.
//
// Every binary declares its own config struct with `env` tags prefixed
// DUALIDADE_ and lets command-line flags override the parsed values.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithLookup loads configuration from a custom lookup, which keeps
// tests independent of the process environment.
func ParseEnvWithLookup(target any, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return ParseEnv(target)
	}
	environment := map[string]string{}
	fields, err := env.GetFieldParams(target)
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	for _, field := range fields {
		if value, ok := lookup(field.Key); ok {
			environment[field.Key] = value
		}
	}
	if err := env.ParseWithOptions(target, env.Options{Environment: environment}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
