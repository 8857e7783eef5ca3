package api

import (
	"log/slog"
	"net/http"

	"quinian/internal/store"
)

// Config holds API server configuration.
type Config struct {
	Store  store.ResultStore
	Logger *slog.Logger
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(cfg Config) http.Handler {
	handler := NewHandler(cfg.Store)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("GET /v1/results", handler.ListResults)
	mux.HandleFunc("GET /v1/results/{hash}", handler.GetResult)

	var h http.Handler = mux
	h = CORS(h)
	h = Gzip(h)
	h = Logger(cfg.Logger)(h)
	h = Recover(cfg.Logger)(h)

	return h
}
