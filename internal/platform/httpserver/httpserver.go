// Package httpserver constructs the process's single HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the directory router in an http.Server bound to addr.
// ReadHeaderTimeout bounds stalled header reads; IdleTimeout recycles
// keep-alive connections from one-shot form clients.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
