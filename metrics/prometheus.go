package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sustain metrics collector
// Provides metrics for monitoring money pool activity

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all sustain metrics
type Collector struct {
	// Pool lifecycle metrics
	PoolsConfigured *prometheus.CounterVec
	PoolsByState    *prometheus.GaugeVec
	PoolTarget      *prometheus.GaugeVec
	PoolTotal       *prometheus.GaugeVec

	// Sustainment metrics
	SustainmentsTotal *prometheus.CounterVec
	SustainmentVolume *prometheus.CounterVec

	// Redistribution metrics
	RedistributionsTotal  *prometheus.CounterVec
	RedistributionVolume  *prometheus.CounterVec
	RedistributionLatency *prometheus.HistogramVec

	// Tap metrics
	TapsTotal *prometheus.CounterVec
	TapVolume *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSSubscriptions     *prometheus.GaugeVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Pool lifecycle metrics
	c.PoolsConfigured = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "pools",
			Name:      "configured_total",
			Help:      "Total number of pool configuration edits",
		},
		[]string{"denom"},
	)

	c.PoolsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sustain",
			Subsystem: "pools",
			Name:      "by_state",
			Help:      "Number of pools in each lifecycle state",
		},
		[]string{"state"},
	)

	c.PoolTarget = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sustain",
			Subsystem: "pools",
			Name:      "target",
			Help:      "Configured target per pool",
		},
		[]string{"pool_id", "denom"},
	)

	c.PoolTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sustain",
			Subsystem: "pools",
			Name:      "total",
			Help:      "Collected total per pool",
		},
		[]string{"pool_id", "denom"},
	)

	// Sustainment metrics
	c.SustainmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "sustainments",
			Name:      "total",
			Help:      "Total number of sustainment contributions",
		},
		[]string{"denom"},
	)

	c.SustainmentVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "sustainments",
			Name:      "volume",
			Help:      "Cumulative sustainment volume",
		},
		[]string{"denom"},
	)

	// Redistribution metrics
	c.RedistributionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "redistributions",
			Name:      "total",
			Help:      "Total number of redistribution collections",
		},
		[]string{"denom"},
	)

	c.RedistributionVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "redistributions",
			Name:      "volume",
			Help:      "Cumulative surplus volume paid back to sustainers",
		},
		[]string{"denom"},
	)

	c.RedistributionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sustain",
			Subsystem: "redistributions",
			Name:      "latency_ms",
			Help:      "Settlement walk latency in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{},
	)

	// Tap metrics
	c.TapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "taps",
			Name:      "total",
			Help:      "Total number of owner withdrawals",
		},
		[]string{"denom"},
	)

	c.TapVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "taps",
			Name:      "volume",
			Help:      "Cumulative volume withdrawn by pool owners",
		},
		[]string{"denom"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sustain",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sustain",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Active WebSocket subscriptions per channel",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sustain",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "status"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sustain",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sustain",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sustain",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 10),
		},
		[]string{},
	)

	c.register()
	return c
}

// register registers all metrics with the default registry
func (c *Collector) register() {
	prometheus.MustRegister(c.PoolsConfigured)
	prometheus.MustRegister(c.PoolsByState)
	prometheus.MustRegister(c.PoolTarget)
	prometheus.MustRegister(c.PoolTotal)

	prometheus.MustRegister(c.SustainmentsTotal)
	prometheus.MustRegister(c.SustainmentVolume)

	prometheus.MustRegister(c.RedistributionsTotal)
	prometheus.MustRegister(c.RedistributionVolume)
	prometheus.MustRegister(c.RedistributionLatency)

	prometheus.MustRegister(c.TapsTotal)
	prometheus.MustRegister(c.TapVolume)

	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSSubscriptions)

	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
}

// ============ Recording Helpers ============

// RecordConfigure records a pool configuration edit
func (c *Collector) RecordConfigure(denom string) {
	c.PoolsConfigured.WithLabelValues(denom).Inc()
}

// RecordPoolStates records the per-state pool counts from a block scan
func (c *Collector) RecordPoolStates(upcoming, active, redistributing int) {
	c.PoolsByState.WithLabelValues("upcoming").Set(float64(upcoming))
	c.PoolsByState.WithLabelValues("active").Set(float64(active))
	c.PoolsByState.WithLabelValues("redistributing").Set(float64(redistributing))
}

// RecordSustainment records a contribution
func (c *Collector) RecordSustainment(denom string, amount float64) {
	c.SustainmentsTotal.WithLabelValues(denom).Inc()
	c.SustainmentVolume.WithLabelValues(denom).Add(amount)
}

// RecordRedistribution records a surplus collection
func (c *Collector) RecordRedistribution(denom string, amount, latencyMs float64) {
	c.RedistributionsTotal.WithLabelValues(denom).Inc()
	c.RedistributionVolume.WithLabelValues(denom).Add(amount)
	c.RedistributionLatency.WithLabelValues().Observe(latencyMs)
}

// RecordTap records an owner withdrawal
func (c *Collector) RecordTap(denom string, amount float64) {
	c.TapsTotal.WithLabelValues(denom).Inc()
	c.TapVolume.WithLabelValues(denom).Add(amount)
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a request rejected by the rate limiter
func (c *Collector) RecordRateLimitHit(path string) {
	c.RateLimitHits.WithLabelValues(path).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

// UpdateBlockHeight updates the block height gauge
func (c *Collector) UpdateBlockHeight(height int64) {
	c.BlockHeight.Set(float64(height))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
