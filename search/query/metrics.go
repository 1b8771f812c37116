package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics observes operator execution. A nil *Metrics records nothing.
type Metrics struct {
	evaluations      prometheus.Counter
	foldSteps        *prometheus.CounterVec
	candidateSetSize prometheus.Histogram
	emittedMatches   prometheus.Counter
	sentBatches      prometheus.Counter
}

// NewMetrics registers the operator metrics on registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "lynxq_intersection_evaluations_total",
			Help: "Number of intersection operators evaluated",
		}),
		foldSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lynxq_intersection_fold_steps_total",
			Help: "Number of candidate set refinement steps, by kind",
		}, []string{"kind"}),
		candidateSetSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lynxq_candidate_set_size",
			Help:    "Candidate set size after each refinement step",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		emittedMatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "lynxq_emitted_matches_total",
			Help: "Number of matches sent downstream",
		}),
		sentBatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "lynxq_sent_batches_total",
			Help: "Number of results messages sent downstream",
		}),
	}
}

func (m *Metrics) observeEvaluation() {
	if m == nil {
		return
	}
	m.evaluations.Inc()
}

func (m *Metrics) observeStep(kind string, size int) {
	if m == nil {
		return
	}
	m.foldSteps.WithLabelValues(kind).Inc()
	m.candidateSetSize.Observe(float64(size))
}

func (m *Metrics) observeBatch(size int) {
	if m == nil {
		return
	}
	m.sentBatches.Inc()
	m.emittedMatches.Add(float64(size))
}
