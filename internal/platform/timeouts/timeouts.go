// Package timeouts defines shared timeout constants used by the binaries.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// RollWait caps how long a synchronous roll request waits for the
// animation to settle.
const RollWait = 5 * time.Second
