package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/prometheus"
)

// RouterConfig aggregates the handler and infrastructure dependencies of the
// route tree.
type RouterConfig struct {
	Precursor *PrecursorHandler
	Health    *HealthHandler
	Metrics   *prometheus.Metrics
	Logger    logging.Logger
	Mode      string
}

// NewRouter builds the complete gin engine: probes and metrics at the root,
// the API under /v1, with logging and metrics middleware on everything.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(requestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		r.Use(requestMetrics(cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}

	v1 := r.Group("/v1")
	{
		v1.POST("/featurize", cfg.Precursor.Featurize)
		v1.POST("/predict", cfg.Precursor.Predict)
	}
	return r
}

// requestLogger emits one structured line per request.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

// requestMetrics records the request counter and latency histogram.
func requestMetrics(m *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
