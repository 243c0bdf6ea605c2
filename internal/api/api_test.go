package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cotizaciones/internal/api"
	"cotizaciones/internal/gatherer"
	"cotizaciones/internal/normalize"
	"cotizaciones/internal/observability"
	"cotizaciones/internal/storage/memory"
	"cotizaciones/internal/transport"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fetchFunc func(ctx context.Context) ([]byte, error)

func (f fetchFunc) Fetch(ctx context.Context) ([]byte, error) { return f(ctx) }

const feed = `{
	"centro": [{"Label":"Dolar","Icon":"usd","Purchase":"7.100","Sale":"7.250"}],
	"norte":  []
}`

func parseJSON(data []byte) (normalize.Payload, error) {
	var p normalize.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

type env struct {
	router    *gin.Engine
	responses *memory.QueryResponseStore
	metrics   *observability.Metrics
}

// newEnv wires two gatherers: OK serves feed, DOWN fails with fetchErr.
func newEnv(t *testing.T, fetchErr error) *env {
	t.Helper()

	places := memory.NewPlaceStore()
	responses := memory.NewQueryResponseStore()
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	build := func(code string, f gatherer.Fetcher) gatherer.Gatherer {
		g, err := gatherer.NewStreamGatherer(gatherer.Source{
			Code:       code,
			Name:       code + " Exchange",
			URL:        "ws://test.invalid",
			Parse:      parseJSON,
			Currencies: normalize.CurrencyTable{Tokens: map[string]string{"usd": "USD"}},
			Branches:   normalize.BranchTable{"centro": {Name: "Centro"}},
		}, gatherer.Options{
			Places:    places,
			Responses: responses,
			Fetcher:   f,
			Clock:     func() time.Time { return now },
			Logger:    logger,
			Metrics:   metrics,
		})
		require.NoError(t, err)
		return g
	}

	ok := build("OK", fetchFunc(func(context.Context) ([]byte, error) { return []byte(feed), nil }))
	down := build("DOWN", fetchFunc(func(context.Context) ([]byte, error) { return nil, fetchErr }))

	set, err := gatherer.NewSet(ok, down)
	require.NoError(t, err)

	h := api.NewHandler(set, responses, api.Options{QueryTimeout: time.Second, Logger: logger, Metrics: metrics})
	return &env{router: api.NewRouter(h), responses: responses, metrics: metrics}
}

func (e *env) do(t *testing.T, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHealth(t *testing.T) {
	e := newEnv(t, errors.New("unused"))
	rec, body := e.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestListGatherers(t *testing.T) {
	e := newEnv(t, errors.New("unused"))
	rec, body := e.do(t, http.MethodGet, "/api/gatherers")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"DOWN", "OK"}, body["gatherers"])
}

func TestQuery_PersistsAndReturnsResponses(t *testing.T) {
	e := newEnv(t, errors.New("unused"))

	rec, body := e.do(t, http.MethodPost, "/api/gatherers/OK/query")
	require.Equal(t, http.StatusOK, rec.Code)

	responses := body["responses"].([]any)
	require.Len(t, responses, 2)
	first := responses[0].(map[string]any)
	assert.Equal(t, "centro", first["branch_code"])
	details := first["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "USD", details[0].(map[string]any)["iso_code"])
	assert.Equal(t, float64(7250), details[0].(map[string]any)["sale_price"])

	assert.Equal(t, float64(1), testutil.ToFloat64(
		e.metrics.HTTPRequests.WithLabelValues(http.MethodPost, "/api/gatherers/:code/query", "200")))
}

func TestQuery_UnknownCode(t *testing.T) {
	e := newEnv(t, errors.New("unused"))
	rec, _ := e.do(t, http.MethodPost, "/api/gatherers/NOPE/query")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuery_ErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		fetchErr error
		status   int
		kind     string
	}{
		{"timeout", &transport.TimeoutError{URL: "ws://x", Cycles: 4}, http.StatusGatewayTimeout, "transport_timeout"},
		{"connect", fmt.Errorf("%w: refused", transport.ErrConnect), http.StatusBadGateway, "transport_connect"},
		{"canceled", context.DeadlineExceeded, http.StatusGatewayTimeout, "canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.fetchErr)
			rec, body := e.do(t, http.MethodPost, "/api/gatherers/DOWN/query")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.kind, body["kind"])
			assert.Equal(t, "DOWN", body["source"])
		})
	}
}

func TestQueryAll_ReportsPerSourceErrors(t *testing.T) {
	e := newEnv(t, fmt.Errorf("%w: refused", transport.ErrConnect))

	rec, body := e.do(t, http.MethodPost, "/api/query")
	require.Equal(t, http.StatusOK, rec.Code)

	results := body["results"].([]any)
	require.Len(t, results, 2)

	down := results[0].(map[string]any)
	assert.Equal(t, "DOWN", down["code"])
	assert.Equal(t, "transport_connect", down["error"].(map[string]any)["kind"])

	ok := results[1].(map[string]any)
	assert.Equal(t, "OK", ok["code"])
	assert.Nil(t, ok["error"])
	assert.Len(t, ok["responses"], 2)
}

func TestPlaceRoutes(t *testing.T) {
	e := newEnv(t, errors.New("unused"))

	rec, _ := e.do(t, http.MethodGet, "/api/places/OK")
	assert.Equal(t, http.StatusNotFound, rec.Code, "not registered before the first query")

	rec, _ = e.do(t, http.MethodPost, "/api/gatherers/OK/query")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = e.do(t, http.MethodPost, "/api/gatherers/OK/query")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := e.do(t, http.MethodGet, "/api/places/OK")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK Exchange", body["name"])
	branches := body["branches"].([]any)
	require.Len(t, branches, 2)
	assert.Equal(t, "Centro", branches[0].(map[string]any)["name"])
	assert.Equal(t, "norte", branches[1].(map[string]any)["name"])

	rec, body = e.do(t, http.MethodGet, "/api/places/OK/latest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["responses"], 2)

	rec, body = e.do(t, http.MethodGet, "/api/places/OK/branches/centro/history?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["responses"], 2)

	rec, body = e.do(t, http.MethodGet, "/api/places/OK/branches/centro/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["responses"], 1)

	rec, _ = e.do(t, http.MethodGet, "/api/places/OK/branches/sur/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/places/OK/branches/centro/history?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = e.do(t, http.MethodGet, "/api/places/OK/branches/centro/quote?iso=usd&at=2024-05-01T12:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)
	quote := body["quote"].(map[string]any)
	assert.Equal(t, "USD", quote["iso_code"])
	assert.Equal(t, float64(7100), quote["purchase_price"])

	rec, _ = e.do(t, http.MethodGet, "/api/places/OK/branches/norte/quote?iso=USD")
	assert.Equal(t, http.StatusNotFound, rec.Code, "norte snapshots carry no details")

	rec, _ = e.do(t, http.MethodGet, "/api/places/OK/branches/centro/quote?iso=XYZ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, http.MethodGet, "/api/places/OK/branches/centro/quote?iso=USD&at=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
