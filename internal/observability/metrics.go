package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_http_requests_total",
			Help: "Total number of HTTP requests processed by the swap service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swap_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	triggerEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_trigger_events_total",
			Help: "Total number of document-lifecycle trigger events handled.",
		},
		[]string{"event", "outcome"},
	)
	checkoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_checkout_sessions_total",
			Help: "Total number of checkout sessions requested.",
		},
		[]string{"outcome"},
	)
	emailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_emails_total",
			Help: "Total number of transactional emails dispatched.",
		},
		[]string{"template", "outcome"},
	)
	searchOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_search_ops_total",
			Help: "Total number of search index operations.",
		},
		[]string{"op", "outcome"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "swap_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "swap_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		triggerEventsTotal,
		checkoutSessionsTotal,
		emailsTotal,
		searchOpsTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func IncTriggerEvent(event string, err error) {
	triggerEventsTotal.WithLabelValues(event, outcome(err)).Inc()
}

func IncCheckoutSession(err error) {
	checkoutSessionsTotal.WithLabelValues(outcome(err)).Inc()
}

func IncEmail(template string, err error) {
	emailsTotal.WithLabelValues(template, outcome(err)).Inc()
}

func IncSearchOp(op string, err error) {
	searchOpsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
