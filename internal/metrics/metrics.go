// Package metrics holds the Prometheus collectors for the channel service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	SyncWritesTotal   *prometheus.CounterVec
	SyncWriteDuration prometheus.Histogram
	FetchesTotal      *prometheus.CounterVec
	ViewsTotal        *prometheus.CounterVec
	ChannelItems      *prometheus.GaugeVec
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SyncWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_sync_writes_total",
				Help: "Document writes to the remote store, by result.",
			},
			[]string{"result"},
		),
		SyncWriteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "channel_sync_write_duration_seconds",
				Help:    "Duration of remote document writes.",
				Buckets: prometheus.DefBuckets,
			},
		),
		FetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_sync_fetches_total",
				Help: "Remote fetches, by target and result.",
			},
			[]string{"target", "result"},
		),
		ViewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_views_total",
				Help: "Recorded views, by whether the shared counter was hit.",
			},
			[]string{"kind"},
		),
		ChannelItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "channel_items",
				Help: "Items in the current document, by list.",
			},
			[]string{"list"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "channel_api_request_duration_seconds",
				Help:    "HTTP request duration in seconds, by endpoint and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method", "status"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "channel_api_requests_in_flight",
				Help: "Number of HTTP requests currently being served.",
			},
		),
	}

	m.registry.MustRegister(
		m.SyncWritesTotal,
		m.SyncWriteDuration,
		m.FetchesTotal,
		m.ViewsTotal,
		m.ChannelItems,
		m.RequestDuration,
		m.RequestsInFlight,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveWrite(err error, d time.Duration) {
	if m == nil {
		return
	}
	m.SyncWritesTotal.WithLabelValues(result(err)).Inc()
	m.SyncWriteDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveFetch(target string, err error) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(target, result(err)).Inc()
}

// ObserveView counts a view; counted is true when the shared counter was hit.
func (m *Metrics) ObserveView(counted bool) {
	if m == nil {
		return
	}
	kind := "repeat"
	if counted {
		kind = "counted"
	}
	m.ViewsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetItems(videos, shorts, playlists int) {
	if m == nil {
		return
	}
	m.ChannelItems.WithLabelValues("videos").Set(float64(videos))
	m.ChannelItems.WithLabelValues("shorts").Set(float64(shorts))
	m.ChannelItems.WithLabelValues("playlists").Set(float64(playlists))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
