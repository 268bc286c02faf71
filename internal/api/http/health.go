package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/soapgen/internal/generation"
	"github.com/GoSim-25-26J-441/soapgen/internal/session"
)

type GeneratorHealth struct {
	URL          string  `json:"url"`
	Calls        int64   `json:"calls"`
	Errors       int64   `json:"errors"`
	ErrorRate    float64 `json:"error_rate_pct"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	Version   string          `json:"version"`
	Sessions  int             `json:"sessions"`
	Generator GeneratorHealth `json:"generator"`
}

type HealthHandler struct {
	serviceName  string
	version      string
	generatorURL string
	registry     *session.Registry
}

func NewHealthHandler(serviceName, version, generatorURL string, registry *session.Registry) *HealthHandler {
	return &HealthHandler{
		serviceName:  serviceName,
		version:      version,
		generatorURL: generatorURL,
		registry:     registry,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	sessions := 0
	if h.registry != nil {
		sessions = h.registry.Len()
	}
	m := generation.GetMetrics()

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Sessions:  sessions,
		Generator: GeneratorHealth{
			URL:          h.generatorURL,
			Calls:        m.Calls,
			Errors:       m.Errors,
			ErrorRate:    m.ErrorRate(),
			AvgLatencyMs: m.AverageLatencyMs(),
		},
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
