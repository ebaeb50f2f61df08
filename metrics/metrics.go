package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	ContentWrites   *prometheus.CounterVec
	ViewsRecorded   *prometheus.CounterVec
	ViewFailures    *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ContactMessages prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers every collector with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "status"}),
		ContentWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_content_writes_total",
			Help: "Content documents created, updated or deleted",
		}, []string{"type", "action"}),
		ViewsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_views_recorded_total",
			Help: "View and visit events stored",
		}, []string{"subject"}),
		ViewFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_view_record_failures_total",
			Help: "View and visit events that could not be stored",
		}, []string{"subject"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_cache_lookups_total",
			Help: "List cache lookups by result",
		}, []string{"result"}),
		ContactMessages: f.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_contact_messages_total",
			Help: "Contact messages accepted",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveRequest(method string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ContentWrite(kind, action string) {
	if m == nil {
		return
	}
	m.ContentWrites.WithLabelValues(kind, action).Inc()
}

func (m *Metrics) ViewRecorded(subject string) {
	if m == nil {
		return
	}
	m.ViewsRecorded.WithLabelValues(subject).Inc()
}

func (m *Metrics) ViewFailed(subject string) {
	if m == nil {
		return
	}
	m.ViewFailures.WithLabelValues(subject).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ContactReceived() {
	if m == nil {
		return
	}
	m.ContactMessages.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
