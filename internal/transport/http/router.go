package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tipjar/internal/platform/middleware"
)

// NewRouter wires the public and administrator endpoints. Handlers stay thin;
// business logic lives in the directory service. The limiter guards only the
// public submission endpoint.
func NewRouter(h *Handler, logger *slog.Logger, limiter func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/records", h.handleList)
	r.With(limiter).Post("/records", h.handleSubmit)

	r.Get("/moderation", h.handleModerationQueue)
	r.Post("/moderation", h.handleModerate)
	r.Post("/import", h.handleImport)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
