package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sa_fashion"

// Metrics holds the collectors exported on /metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Checkouts *prometheus.CounterVec
	Degraded  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Pass a fresh registry per server
// so tests can build more than one.
func New(reg *prometheus.Registry) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Accepted checkouts by plan type and whether the order was stored.",
	}, []string{"plan_type", "persisted"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_responses_total",
		Help:      "Responses served without the backing store.",
	}, []string{"component", "reason"})

	reg.MustRegister(
		requests, latency, checkouts, degraded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		Requests:  requests,
		LatencyMS: latency,
		Checkouts: checkouts,
		Degraded:  degraded,
		gatherer:  reg,
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) ObserveCheckout(planType string, persisted bool) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(planType, strconv.FormatBool(persisted)).Inc()
}

func (m *Metrics) ObserveDegraded(component, reason string) {
	if m == nil {
		return
	}
	m.Degraded.WithLabelValues(component, reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
