package gatherer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/normalize"
	"cotizaciones/internal/observability"
	"cotizaciones/internal/storage"
	"cotizaciones/internal/transport"
)

// Options holds the collaborators of a StreamGatherer.
type Options struct {
	Places    storage.PlaceStore
	Responses storage.QueryResponseStore

	// Fetcher defaults to a transport.Bridge built from Bridge and the source URL.
	Fetcher Fetcher
	Bridge  transport.Config

	Clock     Clock
	NewID     func() uuid.UUID
	Logger    *slog.Logger
	Publisher Publisher // optional
	Metrics   *observability.Metrics
}

// StreamGatherer implements Gatherer for a source whose feed pushes one
// payload per connection.
type StreamGatherer struct {
	src       Source
	places    storage.PlaceStore
	responses storage.QueryResponseStore
	fetcher   Fetcher
	clock     Clock
	newID     func() uuid.UUID
	logger    *slog.Logger
	publisher Publisher
	metrics   *observability.Metrics
}

// NewStreamGatherer creates a gatherer for src.
func NewStreamGatherer(src Source, opts Options) (*StreamGatherer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if opts.Places == nil || opts.Responses == nil {
		return nil, errors.New("place and response stores are required")
	}

	g := &StreamGatherer{
		src:       src,
		places:    opts.Places,
		responses: opts.Responses,
		fetcher:   opts.Fetcher,
		clock:     opts.Clock,
		newID:     opts.NewID,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if g.newID == nil {
		g.newID = uuid.New
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.logger = g.logger.With("source", src.Code)
	if g.metrics == nil {
		g.metrics = observability.DefaultMetrics
	}
	if g.fetcher == nil {
		cfg := opts.Bridge
		cfg.Name = src.Code
		cfg.URL = src.URL
		g.fetcher = transport.NewBridge(cfg,
			transport.WithLogger(g.logger),
			transport.WithWaitObserver(g.metrics.RecordWaitCycle),
		)
	}
	return g, nil
}

// Code returns the source code.
func (g *StreamGatherer) Code() string {
	return g.src.Code
}

// Source returns the definition driving g.
func (g *StreamGatherer) Source() Source {
	return g.src
}

// CurrentPlace looks up the registered place.
func (g *StreamGatherer) CurrentPlace(ctx context.Context) (*domain.Place, bool, error) {
	p, err := g.places.FindByCode(ctx, g.src.Code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, registryError(g.src.Code, "find place", err)
	}
	return p, true, nil
}

// EnsureRegistered returns the registered place. When absent it fetches one
// payload and saves a place with one branch per remote code found.
func (g *StreamGatherer) EnsureRegistered(ctx context.Context) (*domain.Place, error) {
	p, ok, err := g.CurrentPlace(ctx)
	if err != nil || ok {
		return p, err
	}

	payload, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}

	p = &domain.Place{Code: g.src.Code, Name: g.src.Name}
	if p.Name == "" {
		p.Name = g.src.Code
	}
	for _, code := range payload.SortedCodes() {
		p.AddBranch(g.branch(code))
	}

	saved, err := g.places.Save(ctx, p)
	if err != nil {
		return nil, registryError(g.src.Code, "save place", err)
	}
	g.logger.Info("place registered", "place_id", saved.ID, "branches", len(saved.Branches))
	return saved, nil
}

// DoQuery registers the place if needed, fetches a fresh payload and persists
// one response per branch with a single InsertBulk.
func (g *StreamGatherer) DoQuery(ctx context.Context) (responses []*domain.QueryResponse, err error) {
	start := time.Now()
	defer func() {
		g.metrics.RecordQuery(g.src.Code, time.Since(start), len(responses), err)
		if err != nil {
			g.logger.Error("query failed", "error", err)
		}
	}()

	place, err := g.EnsureRegistered(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}

	place, err = g.registerNewBranches(ctx, place, payload)
	if err != nil {
		return nil, err
	}

	// Stored dates keep microseconds on every backend.
	now := g.clock().Truncate(time.Microsecond)
	responses = make([]*domain.QueryResponse, 0, len(place.Branches))
	for _, b := range place.Branches {
		records, ok := payload[b.RemoteCode]
		if !ok {
			g.logger.Debug("branch missing from payload", "branch", b.RemoteCode)
		}
		details, drops := normalize.Details(records, g.src.Currencies)
		g.reportDrops(b.RemoteCode, drops)

		responses = append(responses, &domain.QueryResponse{
			ID:         g.newID(),
			PlaceID:    place.ID,
			BranchID:   b.ID,
			PlaceCode:  place.Code,
			BranchCode: b.RemoteCode,
			Date:       now,
			Details:    details,
		})
	}

	if err := g.responses.InsertBulk(ctx, responses); err != nil {
		return nil, registryError(g.src.Code, "insert responses", err)
	}
	g.logger.Debug("query persisted", "responses", len(responses))

	g.publish(ctx, place, responses)
	return responses, nil
}

// fetch retrieves and parses one payload.
func (g *StreamGatherer) fetch(ctx context.Context) (normalize.Payload, error) {
	start := time.Now()
	data, err := g.fetcher.Fetch(ctx)
	if err != nil {
		gerr := fetchError(g.src.Code, err)
		g.metrics.RecordFetch(g.src.Code, string(gerr.Kind), time.Since(start))
		return nil, gerr
	}
	g.metrics.RecordFetch(g.src.Code, "ok", time.Since(start))

	payload, err := g.src.Parse(data)
	if err != nil {
		return nil, parseError(g.src.Code, err)
	}
	return payload, nil
}

// registerNewBranches appends remote codes missing from place and saves it.
// Returns place unchanged when nothing is new.
func (g *StreamGatherer) registerNewBranches(ctx context.Context, place *domain.Place, payload normalize.Payload) (*domain.Place, error) {
	var added []string
	updated := place.Clone()
	for _, code := range payload.SortedCodes() {
		if updated.BranchByRemoteCode(code) != nil {
			continue
		}
		updated.AddBranch(g.branch(code))
		added = append(added, code)
	}
	if len(added) == 0 {
		return place, nil
	}

	saved, err := g.places.Save(ctx, updated)
	if err != nil {
		return nil, registryError(g.src.Code, "save new branches", err)
	}
	g.logger.Info("new branches registered", "codes", added)
	return saved, nil
}

// branch builds the canonical branch for a remote code, warning when the
// code has no static metadata.
func (g *StreamGatherer) branch(code string) *domain.Branch {
	b, known := g.src.Branches.Branch(code)
	if !known {
		g.logger.Warn("unknown branch code, registering without metadata", "remote_code", code)
	}
	g.metrics.RecordBranchRegistered(g.src.Code, !known)
	return b
}

func (g *StreamGatherer) reportDrops(branch string, drops []normalize.Drop) {
	for _, d := range drops {
		g.metrics.RecordDropped(g.src.Code, d.Reason)
		attrs := []any{
			"branch", branch,
			"reason", d.Reason,
			"label", d.Record.Label,
			"icon", d.Record.Icon,
		}
		if d.Reason == normalize.DropExcluded {
			g.logger.Debug("record dropped", attrs...)
			continue
		}
		if d.Err != nil {
			attrs = append(attrs, "error", d.Err)
		}
		g.logger.Warn("record dropped", attrs...)
	}
}

func (g *StreamGatherer) publish(ctx context.Context, place *domain.Place, responses []*domain.QueryResponse) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, place, responses); err != nil {
		g.metrics.RecordPublishError(g.src.Code)
		g.logger.Warn("publish failed", "error", fmt.Errorf("publish %d responses: %w", len(responses), err))
	}
}

var _ Gatherer = (*StreamGatherer)(nil)
