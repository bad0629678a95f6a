package report

import "github.com/prometheus/client_golang/prometheus"

const (
	kindRoster  = "roster"
	kindInvoice = "invoice"
)

// Metrics counts renders by artifact kind and outcome.
type Metrics struct {
	renders *prometheus.CounterVec
}

// NewMetrics registers report_renders_total on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_renders_total",
				Help: "Total number of report artifacts rendered, by kind and status.",
			},
			[]string{"kind", "status"},
		),
	}
	if err := reg.Register(m.renders); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(kind string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.renders.WithLabelValues(kind, status).Inc()
}
