package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	DefaultPort           = 18000
	DefaultPushGatewayURL = "http://localhost:19091"
	DefaultSamplingRate   = 3.0
	DefaultTopic          = "sim-job-transitions"
)

// DefaultJobs are the long, medium and short running jobs pushed to the gateway.
func DefaultJobs() []JobProfile {
	return []JobProfile{
		{Name: "long_running_job", MeanRunTime: 600 * time.Second, StdDev: 30 * time.Second},
		{Name: "medium_running_job", MeanRunTime: 300 * time.Second, StdDev: 30 * time.Second},
		{Name: "short_running_job", MeanRunTime: 60 * time.Second, StdDev: 10 * time.Second},
	}
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		Port:     DefaultPort,
		LogLevel: "info",
		PushGateway: PushGatewayConfig{
			URL:        DefaultPushGatewayURL,
			Attempts:   3,
			RetryDelay: 200 * time.Millisecond,
		},
		SamplingRate:     DefaultSamplingRate,
		Jobs:             DefaultJobs(),
		TransitionsTopic: DefaultTopic,
	}
}

// Load reads configuration from environment variables and .env file.
func Load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to Default for unset keys.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	getEnv := func(key string, target *string) {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
		}
	}
	getParsed := func(key string, parse func(string) error) {
		value, ok := lookup(key)
		if !ok || value == "" {
			return
		}
		if err := parse(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	getParsed("PORT", func(v string) (err error) {
		cfg.Port, err = strconv.Atoi(v)
		return err
	})
	getEnv("LOG_LEVEL", &cfg.LogLevel)
	getEnv("PUSH_GATEWAY_URL", &cfg.PushGateway.URL)
	getParsed("PUSH_ATTEMPTS", func(v string) error {
		n, err := strconv.ParseUint(v, 10, 32)
		cfg.PushGateway.Attempts = uint(n)
		return err
	})
	getParsed("PUSH_RETRY_DELAY", func(v string) (err error) {
		cfg.PushGateway.RetryDelay, err = time.ParseDuration(v)
		return err
	})
	getParsed("SAMPLING_RATE", func(v string) (err error) {
		cfg.SamplingRate, err = strconv.ParseFloat(v, 64)
		return err
	})
	getParsed("JOB_PROFILES", func(v string) (err error) {
		cfg.Jobs, err = ParseJobProfiles(v)
		return err
	})
	getEnv("DB_NAME", &cfg.DBName)
	getEnv("TURSO_PRIMARY_URL", &cfg.Turso.PrimaryURL)
	getEnv("TURSO_AUTH_TOKEN", &cfg.Turso.AuthToken)
	getEnv("GCP_PROJECT", &cfg.ProjectID)
	getEnv("TRANSITIONS_TOPIC", &cfg.TransitionsTopic)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseJobProfiles parses "name:mean:std" entries separated by commas, with
// mean and std in seconds, e.g. "short_running_job:60:10".
func ParseJobProfiles(s string) ([]JobProfile, error) {
	var jobs []JobProfile
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("job profile %q: want name:mean:std", entry)
		}
		mean, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("job profile %q: mean: %w", entry, err)
		}
		std, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("job profile %q: std: %w", entry, err)
		}
		jobs = append(jobs, JobProfile{
			Name:        strings.TrimSpace(parts[0]),
			MeanRunTime: time.Duration(mean * float64(time.Second)),
			StdDev:      time.Duration(std * float64(time.Second)),
		})
	}
	return jobs, nil
}

// Validate reports configuration that cannot run.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if !(c.SamplingRate > 0) {
		errs = append(errs, fmt.Errorf("sampling rate must be positive, got %v", c.SamplingRate))
	}
	if c.PushGateway.URL == "" {
		errs = append(errs, errors.New("push gateway url is required"))
	}
	if c.PushGateway.Attempts == 0 {
		errs = append(errs, errors.New("push attempts must be at least 1"))
	}
	if c.PushGateway.RetryDelay < 0 {
		errs = append(errs, errors.New("push retry delay must not be negative"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	seen := make(map[string]bool, len(c.Jobs))
	for _, j := range c.Jobs {
		switch {
		case j.Name == "":
			errs = append(errs, errors.New("job profile name is required"))
		case seen[j.Name]:
			errs = append(errs, fmt.Errorf("job profile %s is defined twice", j.Name))
		case j.MeanRunTime < 0 || j.StdDev < 0:
			errs = append(errs, fmt.Errorf("job profile %s has a negative run time", j.Name))
		}
		seen[j.Name] = true
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server on all interfaces.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
