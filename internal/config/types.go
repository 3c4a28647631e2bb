package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	Port             int
	LogLevel         string
	PushGateway      PushGatewayConfig
	SamplingRate     float64
	Jobs             []JobProfile
	DBName           string
	Turso            TursoConfig
	ProjectID        string
	TransitionsTopic string
}
type PushGatewayConfig struct {
	URL        string
	Attempts   uint
	RetryDelay time.Duration
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// JobProfile describes one simulated job: its run time is drawn from a normal
// distribution with the given mean and standard deviation.
type JobProfile struct {
	Name        string
	MeanRunTime time.Duration
	StdDev      time.Duration
}
