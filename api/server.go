package api

import (
	"net/http"
	"time"

	"github.com/angelmondragon/counterpos/pkg/config"
)

// NewServer wraps h in an http.Server bound to the configured loopback address.
func NewServer(cfg config.HTTPConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
