package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server tuned for the registration API: step submissions
// are small JSON bodies, so short read deadlines are safe, while idle
// keep-alives stay long enough for a user working through the wizard.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
