// Package httpserver builds the process HTTP server from the server settings.
package httpserver

import (
	"net/http"
	"time"

	"zoopito/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	// readTimeout covers the largest bulk registration body on a slow field connection.
	readTimeout      = 60 * time.Second
	idleTimeout      = 120 * time.Second
	minWriteTimeout  = 30 * time.Second
	writeTimeoutSlop = 5 * time.Second
)

// New builds the server for cfg.Addr. The write timeout outlasts the request
// timeout, so a handler cancelled by it can still write its error response.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      max(cfg.RequestTimeout+writeTimeoutSlop, minWriteTimeout),
		IdleTimeout:       idleTimeout,
	}
}
