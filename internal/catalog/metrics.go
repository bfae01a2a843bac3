package catalog

import "github.com/prometheus/client_golang/prometheus"

const (
	labelOp     = "op"
	labelResult = "result"

	resultOK      = "ok"
	resultInvalid = "invalid"
	resultNoop    = "noop"
	resultFailed  = "persist_failed"
)

type Metrics struct {
	Products        prometheus.Gauge
	Mutations       *prometheus.CounterVec
	PersistFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products currently in the catalog",
		}),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_mutations_total",
				Help: "Catalog mutations by operation and result",
			},
			[]string{labelOp, labelResult},
		),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_persist_failures_total",
			Help: "Snapshot writes that failed",
		}),
	}

	reg.MustRegister(m.Products, m.Mutations, m.PersistFailures)
	return m
}

func (m *Metrics) observe(op, result string, size int) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, result).Inc()
	if result == resultFailed {
		m.PersistFailures.Inc()
	}
	m.Products.Set(float64(size))
}
