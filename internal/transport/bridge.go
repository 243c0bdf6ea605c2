package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Config configures a Bridge.
type Config struct {
	// Name labels logs and metrics, usually the source code.
	Name string
	// URL is the feed address, e.g. ws://cambiosalberdi.com:9300.
	URL string
	// Retries is the number of wait cycles before giving up.
	Retries int
	// RetryWait is the wait budget of a single cycle.
	RetryWait time.Duration
	// HandshakeTimeout bounds the connection handshake.
	HandshakeTimeout time.Duration
	// ReadLimit caps the payload size in bytes.
	ReadLimit int64
}

// DefaultConfig returns the default bridge configuration: 4 cycles of 10s.
func DefaultConfig() Config {
	return Config{
		Retries:          4,
		RetryWait:        10 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		ReadLimit:        1 << 20,
	}
}

// WaitObserver is notified after every wait cycle that ended without payload.
type WaitObserver func(name string, cycle int)

// Bridge exposes a blocking fetch over a connection that pushes one message.
// A Bridge holds no per-call state and is safe for concurrent use.
type Bridge struct {
	cfg      Config
	dialer   Dialer
	logger   *slog.Logger
	observer WaitObserver
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithDialer replaces the default WebSocket dialer.
func WithDialer(d Dialer) Option {
	return func(b *Bridge) { b.dialer = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithWaitObserver registers a callback for empty wait cycles.
func WithWaitObserver(o WaitObserver) Option {
	return func(b *Bridge) { b.observer = o }
}

// NewBridge creates a bridge. Zero or negative settings fall back to DefaultConfig.
func NewBridge(cfg Config, opts ...Option) *Bridge {
	def := DefaultConfig()
	if cfg.Retries <= 0 {
		cfg.Retries = def.Retries
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = def.RetryWait
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = def.HandshakeTimeout
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = def.ReadLimit
	}

	b := &Bridge{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.dialer == nil {
		b.dialer = WebSocketDialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
			ReadLimit:        cfg.ReadLimit,
		}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Config returns the effective configuration.
func (b *Bridge) Config() Config {
	return b.cfg
}

type readResult struct {
	data []byte
	err  error
}

// Fetch opens a connection, waits for the first message and closes the
// connection. It fails with ErrConnect, a *TimeoutError or ctx.Err().
func (b *Bridge) Fetch(ctx context.Context) ([]byte, error) {
	conn, err := b.dialer.Dial(ctx, b.cfg.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnect, b.cfg.URL, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			b.logger.Debug("close connection", "source", b.cfg.Name, "error", err)
		}
	}()

	// One-shot: the reader delivers at most one result and exits. Closing
	// the connection unblocks a pending read.
	result := make(chan readResult, 1)
	go func() {
		data, err := conn.ReadMessage()
		result <- readResult{data: data, err: err}
	}()

	timer := time.NewTimer(b.cfg.RetryWait)
	defer timer.Stop()

	for cycle := 1; cycle <= b.cfg.Retries; cycle++ {
		select {
		case r := <-result:
			if r.err != nil {
				return nil, fmt.Errorf("%w: %s closed before payload: %v", ErrConnect, b.cfg.URL, r.err)
			}
			return r.data, nil

		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			b.logger.Debug("no payload yet",
				"source", b.cfg.Name,
				"cycle", cycle,
				"retries", b.cfg.Retries,
			)
			if b.observer != nil {
				b.observer(b.cfg.Name, cycle)
			}
			timer.Reset(b.cfg.RetryWait)
		}
	}

	return nil, &TimeoutError{URL: b.cfg.URL, Cycles: b.cfg.Retries, Wait: b.cfg.RetryWait}
}
