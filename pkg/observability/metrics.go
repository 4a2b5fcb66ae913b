package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/lifecycle"
	"github.com/aretw0/waypoint/pkg/navigator"
)

const namespace = "waypoint"

// Metrics holds the Prometheus collectors for navigation activity.
type Metrics struct {
	Navigations   *prometheus.CounterVec
	Dispatches    *prometheus.CounterVec
	Receivers     *prometheus.CounterVec
	Registrations prometheus.Gauge
	StackSize     prometheus.Gauge
}

var _ lifecycle.Observer = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "navigations_total",
				Help:      "Structural navigation operations by type.",
			},
			[]string{"event"},
		),
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lifecycle_dispatches_total",
				Help:      "Lifecycle notifications by type.",
			},
			[]string{"event"},
		),
		Receivers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lifecycle_callbacks_total",
				Help:      "Lifecycle callbacks invoked by type.",
			},
			[]string{"event"},
		),
		Registrations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lifecycle_registrations",
			Help:      "Lifecycles currently bound to a screen key.",
		}),
		StackSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stack_size",
			Help:      "Screens held by the navigator after the last operation.",
		}),
	}

	for _, c := range []prometheus.Collector{m.Navigations, m.Dispatches, m.Receivers, m.Registrations, m.StackSize} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNewMetrics is NewMetrics that panics on registration errors.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m, err := NewMetrics(reg)
	if err != nil {
		panic(err)
	}
	return m
}

// LifecycleDispatched implements lifecycle.Observer.
func (m *Metrics) LifecycleDispatched(event domain.EventType, _ string, receivers int) {
	m.Dispatches.WithLabelValues(string(event)).Inc()
	m.Receivers.WithLabelValues(string(event)).Add(float64(receivers))
}

// RegistrationsChanged implements lifecycle.Observer.
func (m *Metrics) RegistrationsChanged(total int) {
	m.Registrations.Set(float64(total))
}

// Hooks returns navigator hooks that record structural operations.
func (m *Metrics) Hooks() navigator.Hooks {
	return navigator.Hooks{
		OnNavigate: func(e *domain.NavigationEvent) {
			m.Navigations.WithLabelValues(string(e.Type)).Inc()
			m.StackSize.Set(float64(e.Size))
		},
	}
}
