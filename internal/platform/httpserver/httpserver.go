// Package httpserver constructs the process HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the router in an http.Server with conservative connection
// timeouts. ReadHeaderTimeout bounds slow clients before routing;
// IdleTimeout reclaims keep-alive connections. Per-request deadlines
// belong to route middleware, not the server.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
