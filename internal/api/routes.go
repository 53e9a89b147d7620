package api

import (
	"context"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Permanent redirects carried over from the old marketing site.
var redirects = map[string]string{
	"/guarantee":  "/blog",
	"/guarantees": "/blog",
	"/faq":        "/docs",
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	for from, to := range redirects {
		target := to
		r.Get(from, func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, target, http.StatusMovedPermanently)
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/roi", func(r chi.Router) {
			r.Get("/industries", s.handleListIndustries)
			r.Get("/industries/{industry}", s.handleGetIndustry)
			r.With(s.rateLimit).Post("/estimate", s.handleEstimate)
		})

		r.Route("/lead-sessions", func(r chi.Router) {
			r.With(s.rateLimit).Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Group(func(r chi.Router) {
					r.Use(s.rateLimit)
					r.Post("/ready", s.handleSessionReady)
					r.Post("/events", s.handleSessionEvent)
					r.Post("/skip", s.handleSessionSkip)
					r.Post("/back", s.handleSessionBack)
				})
			})
		})

		r.With(s.rateLimit).Post("/leads/webhook", s.handleLeadWebhook)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady probes every dependency and reports 503 when any fails.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for _, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			results[c.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[c.Name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": results,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
