// Package config loads the YAML configuration shared by the binaries.
package config

import (
	"time"

	"cotizaciones/internal/logging"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig            `yaml:"server"`
	Log     logging.Config          `yaml:"log"`
	Storage StorageConfig           `yaml:"storage"`
	Kafka   KafkaConfig             `yaml:"kafka"`
	Sources map[string]SourceConfig `yaml:"sources"` // keyed by source code
	Metrics MetricsConfig           `yaml:"metrics"`
}

// ServerConfig configures the HTTP shell.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Mode            string        `yaml:"mode"` // gin mode: debug, release, test
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// StorageConfig selects the registry backends.
// With use_memory nothing survives a restart. Otherwise places live in
// Postgres, and responses go to ClickHouse when clickhouse_dsn is set.
type StorageConfig struct {
	UseMemory     bool   `yaml:"use_memory"`
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
	Migrate       bool   `yaml:"migrate"`

	PostgresMaxConns     int32         `yaml:"postgres_max_conns"`
	PostgresMinConns     int32         `yaml:"postgres_min_conns"`
	PostgresConnLifetime time.Duration `yaml:"postgres_conn_lifetime"`
}

// KafkaConfig configures snapshot publication. Empty brokers disable it.
type KafkaConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Enabled reports whether publication is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// SourceConfig tunes one gatherer.
type SourceConfig struct {
	Disabled         bool          `yaml:"disabled"`
	URL              string        `yaml:"url"` // empty uses the source default
	Retries          int           `yaml:"retries"`
	RetryWait        time.Duration `yaml:"retry_wait"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled"`
	Path     string `yaml:"path"`
}
