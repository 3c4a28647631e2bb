package http

import (
	"net/http"

	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
)

// NewServer wires the routes. journal may be nil when the job run journal is
// disabled.
func NewServer(metricsHandler http.Handler, journal jobrun.Store, cfg config.Config) *Server {
	server := &Server{
		MetricsHandler: metricsHandler,
		Journal:        journal,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers except the scrape endpoint are wrapped with middleware using the Chain helper.
	s.Router.Handle("GET /{$}", Chain(s.WelcomeHandler(), paramsMiddleware))
	s.Router.Handle("GET /service/metrics", s.MetricsHandler)
	s.Router.Handle("GET /service/jobs", Chain(s.ListJobsHandler(), paramsMiddleware))
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
