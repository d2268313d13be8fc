package overlay

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "planetsystem"

// Metrics collects frame loop and overlay statistics on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	frames       prometheus.Counter
	tickDuration prometheus.Histogram
	navigations  *prometheus.CounterVec
	broadcasts   *prometheus.CounterVec
	clients      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one frame loop tick, including render submission",
			Buckets:   []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
		}),
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Satellite navigations by kind",
		}, []string{"kind"}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlay_broadcasts_total",
			Help:      "Messages broadcast to overlay clients",
		}, []string{"type"}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overlay_clients",
			Help:      "Connected overlay clients",
		}),
	}

	m.registry.MustRegister(m.frames, m.tickDuration, m.navigations, m.broadcasts, m.clients)
	return m
}

// ObserveTick implements simulation.TickObserver.
func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.tickDuration.Observe(d.Seconds())
}

// RecordNavigation counts a navigation of kind "document" or "section".
func (m *Metrics) RecordNavigation(kind string) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordBroadcast(msgType string) {
	if m == nil {
		return
	}
	m.broadcasts.WithLabelValues(msgType).Inc()
}

func (m *Metrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Navigator matches scene.Navigator without importing the scene graph.
type Navigator interface {
	OpenDocument(target string) error
	ShowSection(section string)
}

// CountingNavigator records every navigation before delegating.
type CountingNavigator struct {
	Next    Navigator
	Metrics *Metrics
}

func (c CountingNavigator) OpenDocument(target string) error {
	c.Metrics.RecordNavigation("document")
	return c.Next.OpenDocument(target)
}

func (c CountingNavigator) ShowSection(section string) {
	c.Metrics.RecordNavigation("section")
	c.Next.ShowSection(section)
}
