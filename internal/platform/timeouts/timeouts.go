// Package timeouts defines shared timeout constants used across binaries.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Idle limits how long keep-alive connections stay open between requests.
const Idle = 60 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// SQLiteBusy is how long a SQLite connection waits on a locked database
// before reporting SQLITE_BUSY.
const SQLiteBusy = 5 * time.Second
