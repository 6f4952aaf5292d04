package api

import (
	"fmt"
	"net/http"
	"time"
)

// NewServer creates a configured *http.Server. WriteTimeout stays zero so
// live websocket feeds are not cut off; handlers bound their own work.
func NewServer(port int, handler http.Handler) *http.Server {
	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
