package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP holds the request metrics of one router.
type HTTP struct {
	gatherer prometheus.Gatherer

	inFlight prometheus.Gauge
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the HTTP metrics on reg. Pass a fresh registry in tests so
// routers can be built more than once.
func New(reg *prometheus.Registry) *HTTP {
	m := &HTTP{
		gatherer: reg,
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.inFlight, m.total, m.duration)
	return m
}

// Middleware labels by the matched route template so ids do not explode
// cardinality; unmatched paths share the "unmatched" label. A panicking
// handler is recorded as a 500 and the panic is passed on to the recovery
// middleware above.
func (m *HTTP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.inFlight.Inc()
		start := time.Now()
		defer func() {
			m.inFlight.Dec()
			status := c.Writer.Status()
			recovered := recover()
			if recovered != nil {
				status = http.StatusInternalServerError
			}
			m.observe(c, status, time.Since(start))
			if recovered != nil {
				panic(recovered)
			}
		}()
		c.Next()
	}
}

func (m *HTTP) observe(c *gin.Context, status int, elapsed time.Duration) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	code := strconv.Itoa(status)
	m.duration.WithLabelValues(c.Request.Method, route, code).Observe(elapsed.Seconds())
	m.total.WithLabelValues(c.Request.Method, route, code).Inc()
}

func (m *HTTP) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
