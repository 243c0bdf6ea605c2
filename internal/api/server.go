// Package api exposes the gatherers over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cotizaciones/internal/gatherer"
	"cotizaciones/internal/observability"
	"cotizaciones/internal/storage"
)

// DefaultHistoryLimit bounds branch history when no limit is requested.
const DefaultHistoryLimit = 50

// MaxHistoryLimit is the largest accepted history limit.
const MaxHistoryLimit = 1000

// Options configures a Handler. Zero values take defaults.
type Options struct {
	QueryTimeout time.Duration
	Logger       *slog.Logger
	Metrics      *observability.Metrics
}

// Handler serves the gatherer and place routes.
type Handler struct {
	set          *gatherer.Set
	responses    storage.QueryResponseStore
	queryTimeout time.Duration
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// NewHandler creates a Handler over a gatherer set and the response store.
func NewHandler(set *gatherer.Set, responses storage.QueryResponseStore, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.DefaultMetrics
	}
	return &Handler{
		set:          set,
		responses:    responses,
		queryTimeout: opts.QueryTimeout,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
}

// RegisterRoutes binds the handler to a gin engine.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/gatherers", h.ListGatherers)
		api.POST("/gatherers/:code/query", h.Query)
		api.POST("/query", h.QueryAll)
		api.GET("/places/:code", h.GetPlace)
		api.GET("/places/:code/latest", h.GetLatest)
		api.GET("/places/:code/branches/:branch/history", h.GetHistory)
		api.GET("/places/:code/branches/:branch/quote", h.GetQuote)
	}
}

// NewRouter builds an engine with recovery, request logging and metrics
// middleware, plus the handler's routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Logging(h.logger), Metrics(h.metrics))
	h.RegisterRoutes(r)
	return r
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
