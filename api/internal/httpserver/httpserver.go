package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/cors"

	"physics-parser/api/internal/handle"
)

// NewMux registers the public routes.
func NewMux(h *handle.Handle) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/parse", h.Parse)
	return mux
}

// WithCORS allows every origin, method and header; the browser front end is served from elsewhere.
func WithCORS(next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(next)
}

func New(addr string, h *handle.Handle) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           WithCORS(NewMux(h)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
