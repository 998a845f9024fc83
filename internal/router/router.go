package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/profwarlock/warlock/internal/handler"
	"github.com/profwarlock/warlock/internal/logger"
	"github.com/profwarlock/warlock/internal/middleware/metrics"
)

// New wires all routes. The recoverer guarantees the provider always
// gets a structured JSON error instead of a dropped connection.
func New(h *handler.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Api-Key"},
	}))
	r.Use(chimw.RealIP)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/privacy", h.Privacy)
	r.Post("/webhook", h.Webhook)
	r.Post("/natal-chart", h.NatalChart)
	r.Post("/natal-stats", h.NatalStats)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("panic recovered", "panic", rec, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"status":"error","message":"An unexpected error occurred"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
