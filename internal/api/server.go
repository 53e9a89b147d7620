// Package api serves the site backend: ROI estimates, lead-capture sessions
// and the form-provider webhook.
package api

import (
	"context"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"leadflow/internal/common/config"
	"leadflow/internal/common/logger"
	"leadflow/internal/common/observability"
	"leadflow/internal/leadcapture"
	leadregister "leadflow/internal/workers/crm/lead-register"
	estimateimpact "leadflow/internal/workers/roi/estimate-impact"
)

// WorkflowStarter starts a process instance. *camunda.Client satisfies it.
type WorkflowStarter interface {
	StartProcess(ctx context.Context, processID string, variables map[string]interface{}) (int64, error)
}

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies are the services behind the routes. Only Estimator and
// Sessions are required; a nil Leads and Workflow disables the webhook.
type Dependencies struct {
	Logger        logger.Logger
	Observability *observability.Observability
	Estimator     estimateimpact.Executor
	Leads         leadregister.Executor
	Sessions      *leadcapture.Manager
	Workflow      WorkflowStarter
	Checks        []ReadinessCheck
	Limiter       *RateLimiter
}

type Server struct {
	router    chi.Router
	cfg       *config.Config
	logger    logger.Logger
	obs       *observability.Observability
	estimator estimateimpact.Executor
	leads     leadregister.Executor
	sessions  *leadcapture.Manager
	workflow  WorkflowStarter
	checks    []ReadinessCheck
	limiter   *RateLimiter
	started   time.Time
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = NewRateLimiter(cfg.HTTP.RateLimit.RequestsPerMinute, cfg.HTTP.RateLimit.Burst)
	}
	workflow := deps.Workflow
	if !cfg.Camunda.Enabled {
		workflow = nil
	}

	s := &Server{
		router:    chi.NewRouter(),
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "api"}),
		obs:       obs,
		estimator: deps.Estimator,
		leads:     deps.Leads,
		sessions:  deps.Sessions,
		workflow:  workflow,
		checks:    deps.Checks,
		limiter:   limiter,
		started:   time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer wraps the router in an http.Server using the configured
// address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.HTTP.Address,
		Handler:           s,
		ReadTimeout:       config.GetDuration(s.cfg.HTTP.ReadTimeout),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.GetDuration(s.cfg.HTTP.WriteTimeout),
		IdleTimeout:       2 * time.Minute,
	}
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}
