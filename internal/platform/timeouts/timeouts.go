// Package timeouts defines shared timeout constants used by the storefront
// processes.
package timeouts

import "time"

// BackendRequest caps a single call to the commerce backend.
const BackendRequest = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// CacheSync is the default polling interval for backend cache versions.
const CacheSync = 30 * time.Second
