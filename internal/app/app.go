// Package app assembles stores, publisher and gatherers from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"cotizaciones/internal/config"
	"cotizaciones/internal/gatherer"
	"cotizaciones/internal/gatherer/alberdi"
	"cotizaciones/internal/observability"
	"cotizaciones/internal/publish"
	"cotizaciones/internal/storage"
	chstore "cotizaciones/internal/storage/clickhouse"
	"cotizaciones/internal/storage/memory"
	"cotizaciones/internal/storage/migrations"
	pgstore "cotizaciones/internal/storage/postgres"
	"cotizaciones/internal/transport"
)

// Sources maps every known source code to its definition builder.
var Sources = map[string]func(url string) gatherer.Source{
	alberdi.Code: alberdi.Source,
}

// App holds the assembled components.
type App struct {
	Places    storage.PlaceStore
	Responses storage.QueryResponseStore
	Gatherers *gatherer.Set

	logger  *slog.Logger
	closers []func() error
}

// New connects the configured stores, runs migrations when enabled and
// builds one gatherer per enabled source.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}
	a := &App{logger: logger}

	if err := a.createStores(ctx, cfg.Storage); err != nil {
		a.Close()
		return nil, err
	}

	var publisher gatherer.Publisher
	if cfg.Kafka.Enabled() {
		p, err := publish.NewKafkaPublisher(publish.Config{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create kafka publisher: %w", err)
		}
		a.closers = append(a.closers, p.Close)
		publisher = p
		logger.Info("kafka publication enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var gs []gatherer.Gatherer
	for _, code := range cfg.EnabledSources() {
		build, ok := Sources[code]
		if !ok {
			a.Close()
			return nil, fmt.Errorf("unknown source %q (known: %v)", code, KnownSources())
		}
		sc := cfg.Sources[code]
		g, err := gatherer.NewStreamGatherer(build(sc.URL), gatherer.Options{
			Places:    a.Places,
			Responses: a.Responses,
			Bridge: transport.Config{
				Retries:          sc.Retries,
				RetryWait:        sc.RetryWait,
				HandshakeTimeout: sc.HandshakeTimeout,
			},
			Logger:    logger,
			Publisher: publisher,
			Metrics:   metrics,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create gatherer %s: %w", code, err)
		}
		gs = append(gs, g)
	}

	set, err := gatherer.NewSet(gs...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Gatherers = set
	logger.Info("gatherers ready", "sources", set.Codes())
	return a, nil
}

// createStores picks the registry backends: memory when requested,
// otherwise Postgres, with ClickHouse taking responses when configured.
func (a *App) createStores(ctx context.Context, cfg config.StorageConfig) error {
	if cfg.UseMemory {
		a.Places = memory.NewPlaceStore()
		a.Responses = memory.NewQueryResponseStore()
		a.logger.Warn("using in-memory storage, data is lost on exit")
		return nil
	}

	pool, err := pgstore.NewPoolWithConfig(ctx, cfg.PostgresDSN, pgstore.PoolConfig{
		MaxConns:        cfg.PostgresMaxConns,
		MinConns:        cfg.PostgresMinConns,
		MaxConnLifetime: cfg.PostgresConnLifetime,
		ApplicationName: "cotizaciones",
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	if cfg.Migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
	}
	a.Places = pgstore.NewPlaceStore(pool)

	if cfg.ClickhouseDSN == "" {
		a.Responses = pgstore.NewQueryResponseStore(pool)
		a.logger.Info("storage ready", "places", "postgres", "responses", "postgres")
		return nil
	}

	var conn *chstore.Conn
	if cfg.Migrate {
		conn, err = migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	} else {
		conn, err = chstore.NewConn(ctx, cfg.ClickhouseDSN)
	}
	if err != nil {
		return fmt.Errorf("connect to clickhouse: %w", err)
	}
	a.closers = append(a.closers, conn.Close)
	a.Responses = chstore.NewQueryResponseStore(conn)
	a.logger.Info("storage ready", "places", "postgres", "responses", "clickhouse")
	return nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// KnownSources returns the codes in Sources, sorted.
func KnownSources() []string {
	codes := make([]string, 0, len(Sources))
	for code := range Sources {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
