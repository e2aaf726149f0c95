package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// New builds the HTTP server with production timeouts. The websocket route
// relies on hijacking, so no WriteTimeout is set; the transport enforces its
// own deadlines per write.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Shutdown drains the server, waiting up to timeout for in-flight requests.
func Shutdown(log *slog.Logger, srv *http.Server, timeout time.Duration) error {
	log.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", "error", err)
		return err
	}
	log.Info("http server shutdown complete")
	return nil
}
