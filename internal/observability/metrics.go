package observability

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports evaluation counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	audioServed     prometheus.Counter
	cyclesCompleted prometheus.Counter
	sourceErrors    *prometheus.CounterVec
	feedback        *prometheus.CounterVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "audio_eval"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		audioServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_served_total",
			Help:      "Audio files handed out to evaluators.",
		}),
		cyclesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_completed_total",
			Help:      "Sessions that went through every file of a shuffle.",
		}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Failed file listings by provider, split by whether a stale listing was served.",
		}, []string{"provider", "stale"}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback submissions by outcome.",
		}, []string{"outcome"}),
	}

	var err error
	if m.audioServed, err = register(reg, m.audioServed); err != nil {
		return nil, err
	}
	if m.cyclesCompleted, err = register(reg, m.cyclesCompleted); err != nil {
		return nil, err
	}
	if m.sourceErrors, err = register(reg, m.sourceErrors); err != nil {
		return nil, err
	}
	if m.feedback, err = register(reg, m.feedback); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the already registered collector when one with the same
// descriptor exists, so tests and restarts can share a registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (m *Metrics) AudioServed(cycleComplete bool) {
	if m == nil {
		return
	}
	m.audioServed.Inc()
	if cycleComplete {
		m.cyclesCompleted.Inc()
	}
}

func (m *Metrics) SourceError(provider string, stale bool) {
	if m == nil {
		return
	}
	label := "false"
	if stale {
		label = "true"
	}
	m.sourceErrors.WithLabelValues(provider, label).Inc()
}

func (m *Metrics) Feedback(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.feedback.WithLabelValues("failed").Inc()
		return
	}
	m.feedback.WithLabelValues("saved").Inc()
}
