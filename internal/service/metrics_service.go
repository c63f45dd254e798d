package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the
// editor: HTTP traffic, conflict scans and drag gestures.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	scanDuration    prometheus.Histogram
	scanSessions    prometheus.Histogram
	conflictsActive prometheus.Gauge
	dragOperations  *prometheus.CounterVec
	notifications   prometheus.Counter
}

// NewMetricsService registers the editor's collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	scanDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "conflict_scan_duration_seconds",
		Help:    "Duration of pairwise conflict scans",
		Buckets: prometheus.DefBuckets,
	})

	scanSessions := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "conflict_scan_sessions",
		Help:    "Number of sessions per conflict scan",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
	})

	conflictsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conflicts_active",
		Help: "Sessions currently implicated in a collision",
	})

	dragOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "drag_operations_total",
		Help: "Drag gesture transitions by operation",
	}, []string{"operation"})

	notifications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "conflict_notifications_total",
		Help: "Conflict-change notifications dispatched to the host",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, scanDuration, scanSessions, conflictsActive, dragOperations, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		scanDuration:    scanDuration,
		scanSessions:    scanSessions,
		conflictsActive: conflictsActive,
		dragOperations:  dragOperations,
		notifications:   notifications,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveConflictScan records one recomputation of the conflict set.
func (m *MetricsService) ObserveConflictScan(sessions, conflicts int, duration time.Duration) {
	if m == nil {
		return
	}
	m.scanDuration.Observe(duration.Seconds())
	m.scanSessions.Observe(float64(sessions))
	m.conflictsActive.Set(float64(conflicts))
}

// ObserveDragOperation counts one drag state transition.
func (m *MetricsService) ObserveDragOperation(operation string) {
	if m == nil {
		return
	}
	m.dragOperations.WithLabelValues(operation).Inc()
}

// ObserveNotification counts one dispatched conflict notification.
func (m *MetricsService) ObserveNotification() {
	if m == nil {
		return
	}
	m.notifications.Inc()
}
