package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/gatherer"
	"cotizaciones/internal/lookup"
)

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Source string `json:"source,omitempty"`
}

type queryAllResult struct {
	Code      string                  `json:"code"`
	Responses []*domain.QueryResponse `json:"responses,omitempty"`
	Error     *errorResponse          `json:"error,omitempty"`
}

// statusFor maps a gatherer failure to an HTTP status.
func statusFor(err error) int {
	kind, ok := gatherer.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case gatherer.KindTransportTimeout, gatherer.KindCanceled:
		return http.StatusGatewayTimeout
	case gatherer.KindTransportConnect, gatherer.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) *errorResponse {
	body := &errorResponse{Error: err.Error()}
	var gerr *gatherer.Error
	if errors.As(err, &gerr) {
		body.Kind = string(gerr.Kind)
		body.Source = gerr.Source
	}
	return body
}

func (h *Handler) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.queryTimeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.queryTimeout)
	}
	return context.WithCancel(c.Request.Context())
}

func (h *Handler) lookup(c *gin.Context) (gatherer.Gatherer, bool) {
	code := c.Param("code")
	g, ok := h.set.Get(code)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown gatherer " + strconv.Quote(code)})
	}
	return g, ok
}

// ListGatherers returns the configured source codes.
func (h *Handler) ListGatherers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"gatherers": h.set.Codes()})
}

// Query runs one gatherer and returns the persisted snapshots.
func (h *Handler) Query(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	responses, err := g.DoQuery(ctx)
	if err != nil {
		h.logger.Error("query failed", "source", g.Code(), "error", err)
		c.JSON(statusFor(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": g.Code(), "responses": responses})
}

// QueryAll runs every gatherer concurrently. The status is 200 even when
// some sources fail; each result carries its own error.
func (h *Handler) QueryAll(c *gin.Context) {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	results := h.set.QueryAll(ctx)
	out := make([]queryAllResult, len(results))
	for i, r := range results {
		out[i] = queryAllResult{Code: r.Code, Responses: r.Responses}
		if r.Err != nil {
			h.logger.Error("query failed", "source", r.Code, "error", r.Err)
			out[i].Error = errorBody(r.Err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (h *Handler) place(c *gin.Context) (*domain.Place, bool) {
	g, ok := h.lookup(c)
	if !ok {
		return nil, false
	}
	place, found, err := g.CurrentPlace(c.Request.Context())
	if err != nil {
		h.logger.Error("load place failed", "source", g.Code(), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return nil, false
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Error: "place not registered", Source: g.Code()})
		return nil, false
	}
	return place, true
}

// GetPlace returns the registered place with its branches.
func (h *Handler) GetPlace(c *gin.Context) {
	place, ok := h.place(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, place)
}

// GetLatest returns the newest snapshot of every branch of a place.
func (h *Handler) GetLatest(c *gin.Context) {
	place, ok := h.place(c)
	if !ok {
		return
	}
	responses, err := h.responses.GetLatestByPlace(c.Request.Context(), place.ID)
	if err != nil {
		h.logger.Error("load latest responses failed", "place", place.Code, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": place.Code, "responses": responses})
}

// GetHistory returns a branch's snapshots, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	limit := DefaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxHistoryLimit {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	place, branch, responses, ok := h.history(c, limit)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": place.Code, "branch": branch.RemoteCode, "responses": responses})
}

// GetQuote returns a branch's quote for one currency as of a point in time.
// Query parameters: iso (required) and at (RFC 3339, defaults to now).
// Only the newest MaxHistoryLimit snapshots are searched.
func (h *Handler) GetQuote(c *gin.Context) {
	iso := strings.ToUpper(c.Query("iso"))
	if !domain.IsKnownCurrency(iso) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown currency " + strconv.Quote(iso)})
		return
	}
	at := time.Now()
	if s := c.Query("at"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid at, want RFC 3339"})
			return
		}
		at = t
	}

	place, branch, responses, ok := h.history(c, MaxHistoryLimit)
	if !ok {
		return
	}
	quote, err := lookup.QuoteAt(at, iso, responses)
	if errors.Is(err, lookup.ErrNoHistory) || errors.Is(err, lookup.ErrNoCurrency) {
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Source: place.Code})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": place.Code, "branch": branch.RemoteCode, "quote": quote})
}

func (h *Handler) history(c *gin.Context, limit int) (*domain.Place, *domain.Branch, []*domain.QueryResponse, bool) {
	place, ok := h.place(c)
	if !ok {
		return nil, nil, nil, false
	}
	branch := place.BranchByRemoteCode(c.Param("branch"))
	if branch == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "branch not registered", Source: place.Code})
		return nil, nil, nil, false
	}

	responses, err := h.responses.GetByBranch(c.Request.Context(), branch.ID, limit)
	if err != nil {
		h.logger.Error("load branch history failed", "place", place.Code, "branch", branch.RemoteCode, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return nil, nil, nil, false
	}
	return place, branch, responses, true
}
