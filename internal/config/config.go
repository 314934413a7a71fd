package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/retry"
)

type Config struct {
	Port            string
	UpstreamTimeout time.Duration // 0 means no timeout
	RetryAttempts   int
	LogLevel        string

	// Collaborator base URLs, without trailing slash
	CartURL             string
	InventoryURL        string
	OrchestratorURL     string
	ReservationEndpoint string

	// CORS
	CORSAllowOrigins []string

	// Optional features; empty disables them
	RabbitMQURL  string
	OTLPEndpoint string

	SimulateComputeIntensiveTask bool
	ComputationSimulatorURL      string
}

// Load reads the configuration from the environment. When CONFIG_FILE names a
// YAML file its keys (env names, any case) fill in what the environment does
// not set.
func Load() (Config, error) {
	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            src.get("PORT", "8080"),
		UpstreamTimeout: src.getDuration("UPSTREAM_TIMEOUT", 0),
		RetryAttempts:   src.getInt("RETRY_MAX_ATTEMPTS", retry.DefaultMaxAttempts),
		LogLevel:        src.get("LOG_LEVEL", "info"),

		CartURL:             trimURL(src.get("CART_URL", "")),
		InventoryURL:        trimURL(src.get("INVENTORY_URL", "")),
		OrchestratorURL:     trimURL(src.get("ORCHESTRATOR_URL", "")),
		ReservationEndpoint: trimURL(src.get("RESERVATION_ENDPOINT", "")),

		CORSAllowOrigins: splitCSV(src.get("CORS_ALLOW_ORIGINS", "*")),

		RabbitMQURL:  src.get("RABBITMQ_URL", ""),
		OTLPEndpoint: src.get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SimulateComputeIntensiveTask: src.getBool("SIMULATE_COMPUTE_INTENSIVE_TASK", false),
		ComputationSimulatorURL:      trimURL(src.get("COMPUTATION_SIMULATOR_URL", "")),
	}

	if err := errors.Join(src.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"CART_URL", c.CartURL},
		{"INVENTORY_URL", c.InventoryURL},
		{"ORCHESTRATOR_URL", c.OrchestratorURL},
		{"RESERVATION_ENDPOINT", c.ReservationEndpoint},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	if c.SimulateComputeIntensiveTask && c.ComputationSimulatorURL == "" {
		errs = append(errs, errors.New("COMPUTATION_SIMULATOR_URL is required when SIMULATE_COMPUTE_INTENSIVE_TASK is set"))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryAttempts))
	}
	if c.UpstreamTimeout < 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must not be negative, got %s", c.UpstreamTimeout))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

type source struct {
	file map[string]string
	// errs collects values that could not be parsed.
	errs []error
}

func newSource(path string) (source, error) {
	if strings.TrimSpace(path) == "" {
		return source{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read config file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return source{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	file := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			continue
		}
		file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return source{file: file}, nil
}

func (s source) get(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	if v := s.file[k]; strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func trimURL(v string) string {
	return strings.TrimRight(strings.TrimSpace(v), "/")
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func (s *source) getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(s.get(k, ""))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a duration", k, v))
		return def
	}
	return d
}

func (s *source) getInt(k string, def int) int {
	v := strings.TrimSpace(s.get(k, ""))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not an integer", k, v))
		return def
	}
	return n
}

func (s *source) getBool(k string, def bool) bool {
	v := strings.TrimSpace(s.get(k, ""))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a boolean", k, v))
		return def
	}
	return b
}
