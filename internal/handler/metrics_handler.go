package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/pkg/response"
)

type metricsSource interface {
	Handler() http.Handler
	Snapshot() models.ConsoleMetrics
}

// MetricsHandler exposes health and the console's own counters.
type MetricsHandler struct {
	metrics metricsSource
	started time.Time
}

// NewMetricsHandler constructs a metrics handler. A nil source disables both metric endpoints.
func NewMetricsHandler(metrics metricsSource) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, started: time.Now()}
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Console godoc
// @Summary Request, cache and upload counters for the console
// @Tags Observability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/console/metrics [get]
func (h *MetricsHandler) Console(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}

// Health godoc
// @Summary Liveness probe
// @Tags Observability
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
