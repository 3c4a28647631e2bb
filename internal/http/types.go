package http

import (
	"net/http"

	"github.com/mauv0809/teaching-prom/internal/config"
	"github.com/mauv0809/teaching-prom/internal/jobrun"
)

// WelcomeMessage is returned by the root route.
const WelcomeMessage = "Welcome to FastAPI DEMO with Prometheus metrics!"

type Server struct {
	MetricsHandler http.Handler
	Journal        jobrun.Store
	Cfg            config.Config
	Router         *http.ServeMux
}

type welcomeResponse struct {
	Message string `json:"message"`
}

type jobsResponse struct {
	Runs     []jobrun.Run   `json:"runs"`
	Outcomes map[string]int `json:"outcomes"`
}
