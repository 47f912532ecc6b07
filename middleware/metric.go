package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"powergest/services"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	StockMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_mutations_total",
			Help: "Committed compra, venta and stock changes",
		},
		[]string{"entity", "action"},
	)

	ReconcileCorrectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_reconcile_corrections_total",
			Help: "Stock rows rewritten or removed by reconciliation",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HttpRequestsTotal, HttpRequestDuration, StockMutationsTotal, ReconcileCorrectionsTotal)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// MetricsHook counts inventory changes.
type MetricsHook struct{}

func (MetricsHook) OnChange(_ context.Context, ch services.Change) {
	StockMutationsTotal.WithLabelValues(ch.Entity, ch.Action).Inc()
	if res, ok := ch.Record.(services.ReconcileResult); ok {
		ReconcileCorrectionsTotal.Add(float64(res.Corrected + res.Removed))
	}
}

// MetricsGuard only lets clients from cidr reach the handler. An empty
// cidr allows everyone.
func MetricsGuard(cidr string) gin.HandlerFunc {
	var allowed *net.IPNet
	if cidr != "" {
		_, allowed, _ = net.ParseCIDR(cidr)
	}
	return func(c *gin.Context) {
		if allowed == nil {
			c.Next()
			return
		}
		ip := net.ParseIP(c.ClientIP())
		if ip == nil || !allowed.Contains(ip) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
