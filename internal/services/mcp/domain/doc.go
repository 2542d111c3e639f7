// Package domain translates MCP tool calls into roller and character
// operations.
//
// Handlers are plain functions over small interfaces so they can be called
// directly in tests and registered with any MCP transport.
package domain
