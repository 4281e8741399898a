package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Store metrics
	StoreTransitions *prometheus.CounterVec
	Subscribers      prometheus.Gauge

	// Cache metrics
	CacheOps        *prometheus.CounterVec
	CacheEvictions  *prometheus.CounterVec
	CacheBytes      prometheus.Gauge
	CoalescedWrites *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// Contact relay metrics
	ContactRequests *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	Transitions       int64   `json:"transitions"`
	CacheWrites       int64   `json:"cache_writes"`
	CacheFailures     int64   `json:"cache_failures"`
	ActiveConnections int64   `json:"active_connections"`
	Subscribers       int64   `json:"subscribers"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := func(c prometheus.Collector) { reg.MustRegister(c) }

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "deskos_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		StoreTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_store_transitions_total",
				Help: "Total number of store state transitions",
			},
			[]string{"op"},
		),
		Subscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_subscribers",
				Help: "Number of active store subscribers",
			},
		),

		CacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_cache_operations_total",
				Help: "Total number of cache operations",
			},
			[]string{"op", "result"},
		),
		CacheEvictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_cache_evictions_total",
				Help: "Total number of cache entries evicted",
			},
			[]string{"reason"},
		),
		CacheBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_cache_bytes",
				Help: "Bytes held under the cache namespace at last stats",
			},
		),
		CoalescedWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_coalesced_writes_total",
				Help: "Deferred cache writes by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),

		WSConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "deskos_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		ContactRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deskos_contact_requests_total",
				Help: "Contact relay submissions by result",
			},
			[]string{"result"},
		),
	}

	factory(m.RequestsTotal)
	factory(m.RequestDuration)
	factory(m.RequestSize)
	factory(m.ResponseSize)
	factory(m.StoreTransitions)
	factory(m.Subscribers)
	factory(m.CacheOps)
	factory(m.CacheEvictions)
	factory(m.CacheBytes)
	factory(m.CoalescedWrites)
	factory(m.WSConnections)
	factory(m.WSMessages)
	factory(m.ContactRequests)
	factory(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "deskos_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	))
	factory(collectors.NewGoCollector())
	factory(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordTransition records a store state transition
func (m *Metrics) RecordTransition(op string) {
	if m == nil {
		return
	}
	m.StoreTransitions.WithLabelValues(op).Inc()
	m.mu.Lock()
	m.snapshot.Transitions++
	m.mu.Unlock()
}

// RecordCacheOp records a cache operation and its result ("ok", "miss",
// "failed", "retried", ...)
func (m *Metrics) RecordCacheOp(op, result string) {
	if m == nil {
		return
	}
	m.CacheOps.WithLabelValues(op, result).Inc()
	if op != "set" {
		return
	}
	m.mu.Lock()
	m.snapshot.CacheWrites++
	if result == "failed" {
		m.snapshot.CacheFailures++
	}
	m.mu.Unlock()
}

// RecordEviction records entries evicted for reason ("expired", "corrupt")
func (m *Metrics) RecordEviction(reason string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.CacheEvictions.WithLabelValues(reason).Add(float64(count))
}

// SetCacheBytes sets the namespace size gauge
func (m *Metrics) SetCacheBytes(n int64) {
	if m == nil {
		return
	}
	m.CacheBytes.Set(float64(n))
}

// RecordCoalesced records a deferred write outcome ("fired", "cancelled", "flushed")
func (m *Metrics) RecordCoalesced(strategy, outcome string) {
	if m == nil {
		return
	}
	m.CoalescedWrites.WithLabelValues(strategy, outcome).Inc()
}

// SetSubscribers sets the number of store subscribers
func (m *Metrics) SetSubscribers(count int) {
	if m == nil {
		return
	}
	m.Subscribers.Set(float64(count))
	m.mu.Lock()
	m.snapshot.Subscribers = int64(count)
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// RecordContact records a contact relay submission result
func (m *Metrics) RecordContact(result string) {
	if m == nil {
		return
	}
	m.ContactRequests.WithLabelValues(result).Inc()
}

// Snapshot returns current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
