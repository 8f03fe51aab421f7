// Package metrics exposes Prometheus collectors for the API and the
// relationship maintenance paths.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookshelf_http_request_duration_seconds",
		Help:    "Time spent serving HTTP requests.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})

	BookMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_book_mutations_total",
		Help: "Book create/update/delete operations by outcome.",
	}, []string{"operation", "result"})

	BackReferenceWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_back_reference_writes_total",
		Help: "Back-reference array updates issued by the relationship maintainer.",
	}, []string{"collection", "action"})

	ReconcileFixesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_reconcile_fixes_total",
		Help: "Documents rewritten by the reference reconciler.",
	}, []string{"collection"})

	CoverUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_cover_uploads_total",
		Help: "Cover image uploads by outcome.",
	}, []string{"result"})
)

// Middleware records request counts and latency per matched route.
// Unmatched routes are grouped under "unmatched" to bound label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
