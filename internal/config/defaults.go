package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerAddr       = ":8080"
	DefaultServerMode       = "release"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 90 * time.Second
	DefaultShutdownTimeout  = 15 * time.Second
	DefaultQueryTimeout     = 60 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultLogMaxSizeMB     = 100
	DefaultLogMaxBackups    = 5
	DefaultLogMaxAgeDays    = 30
	DefaultKafkaTopic       = "cotizaciones.snapshots"
	DefaultKafkaTimeout     = 10 * time.Second
	DefaultSourceRetries    = 4
	DefaultSourceRetryWait  = 10 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultMetricsPath      = "/metrics"
	DefaultSource           = "ALBERDI"
)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.Mode == "" {
		c.Server.Mode = DefaultServerMode
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.QueryTimeout == 0 {
		c.Server.QueryTimeout = DefaultQueryTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.File != "" {
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = DefaultLogMaxBackups
		}
		if c.Log.MaxAgeDays == 0 {
			c.Log.MaxAgeDays = DefaultLogMaxAgeDays
		}
	}

	if c.Kafka.Enabled() {
		if c.Kafka.Topic == "" {
			c.Kafka.Topic = DefaultKafkaTopic
		}
		if c.Kafka.WriteTimeout == 0 {
			c.Kafka.WriteTimeout = DefaultKafkaTimeout
		}
	}

	if len(c.Sources) == 0 {
		c.Sources = map[string]SourceConfig{DefaultSource: {}}
	}
	for code, s := range c.Sources {
		if s.Retries == 0 {
			s.Retries = DefaultSourceRetries
		}
		if s.RetryWait == 0 {
			s.RetryWait = DefaultSourceRetryWait
		}
		if s.HandshakeTimeout == 0 {
			s.HandshakeTimeout = DefaultHandshakeTimeout
		}
		c.Sources[code] = s
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
