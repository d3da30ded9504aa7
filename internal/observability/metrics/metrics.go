package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects request and domain counters on a private registry so
// tests can instantiate it without fighting over the default one.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	issuesCreatedTotal   *prometheus.CounterVec
	classificationsTotal *prometheus.CounterVec
	tasksProcessedTotal  *prometheus.CounterVec
	taskDuration         *prometheus.HistogramVec
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tracker",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	issuesCreatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: "issues",
			Name:      "created_total",
			Help:      "Total issues created, by category and priority.",
		},
		[]string{"service", "category", "priority"},
	)
	classificationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: "classifier",
			Name:      "classifications_total",
			Help:      "Total classification runs, by suggested category.",
		},
		[]string{"service", "category"},
	)
	tasksProcessedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tracker",
			Subsystem: "worker",
			Name:      "tasks_processed_total",
			Help:      "Total background tasks processed, by type and status.",
		},
		[]string{"service", "type", "status"},
	)
	taskDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tracker",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "Background task duration in seconds by type.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "type"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		issuesCreatedTotal,
		classificationsTotal,
		tasksProcessedTotal,
		taskDuration,
	)

	return &Metrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		issuesCreatedTotal:   issuesCreatedTotal,
		classificationsTotal: classificationsTotal,
		tasksProcessedTotal:  tasksProcessedTotal,
		taskDuration:         taskDuration,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request totals and latency. The route template is
// used as the path label so parameterized routes do not explode cardinality.
func (m *Metrics) GinMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.requestTotal.WithLabelValues(
			service,
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(service, c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IssueCreated(category, priority string) {
	m.issuesCreatedTotal.WithLabelValues("tracker", category, priority).Inc()
}

func (m *Metrics) ClassificationRun(category string) {
	m.classificationsTotal.WithLabelValues("tracker", category).Inc()
}

func (m *Metrics) TaskProcessed(taskType string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.tasksProcessedTotal.WithLabelValues("tracker", taskType, status).Inc()
	m.taskDuration.WithLabelValues("tracker", taskType).Observe(duration.Seconds())
}
