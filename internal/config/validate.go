package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cotizaciones/internal/logging"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.QueryTimeout <= 0 {
		return errors.New("server.query_timeout must be > 0")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if !c.Storage.UseMemory && c.Storage.PostgresDSN == "" {
		return errors.New("storage.postgres_dsn is required unless storage.use_memory is set")
	}

	if c.Storage.PostgresMaxConns < 0 || c.Storage.PostgresMinConns < 0 {
		return errors.New("storage postgres pool sizes must be >= 0")
	}
	if c.Storage.PostgresMaxConns > 0 && c.Storage.PostgresMinConns > c.Storage.PostgresMaxConns {
		return errors.New("storage.postgres_min_conns must not exceed storage.postgres_max_conns")
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when kafka.brokers is set")
	}

	// Sorted for a deterministic first error.
	codes := make([]string, 0, len(c.Sources))
	for code := range c.Sources {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		s := c.Sources[code]
		if s.Retries < 1 {
			return fmt.Errorf("sources.%s.retries must be >= 1", code)
		}
		if s.RetryWait <= 0 {
			return fmt.Errorf("sources.%s.retry_wait must be > 0", code)
		}
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

// EnabledSources returns the codes of sources not disabled, sorted.
func (c *Config) EnabledSources() []string {
	var codes []string
	for code, s := range c.Sources {
		if !s.Disabled {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
