package diagnostics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "glifecycle"

// Metrics holds the collectors exposed on /metrics. Gauges are computed from the sources on
// every scrape, counters are fed by the kernel and the event bus observer.
type Metrics struct {
	registry    *prometheus.Registry
	frames      prometheus.Counter
	invocations *prometheus.CounterVec
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// FrameUpdated counts one frame
func (m *Metrics) FrameUpdated() {
	m.frames.Inc()
}

// EventInvoked has the signature of event_bus.InvokeObserver
func (m *Metrics) EventInvoked(eventName string, listenersCount int) {
	m.invocations.WithLabelValues(eventName).Inc()
}

//--------------------

func NewMetrics(sources Sources) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "frames_total",
			Help:      "Number of frames updated.",
		}),
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "event_invocations_total",
				Help:      "Number of event invocations reaching at least one listener.",
			},
			[]string{"event"},
		),
	}

	m.registry.MustRegister(
		m.frames,
		m.invocations,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "live_objects",
				Help:      "Number of objects in the scene.",
			},
			func() float64 {
				return float64(len(sources.Objects.Objects()))
			},
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "bound_listeners",
				Help:      "Number of listeners bound to events.",
			},
			func() float64 {
				return float64(sources.Events.ListenersCount())
			},
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "singletons",
				Help:      "Number of instances held by the singleton registry.",
			},
			func() float64 {
				return float64(sources.Singletons.Len())
			},
		),
	)

	return m
}
