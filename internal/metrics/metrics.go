package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoansCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lending_loans_created_total",
			Help: "Loans issued",
		},
	)

	PaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lending_payments_total",
			Help: "Payment attempts by type and outcome",
		},
		[]string{"type", "outcome"}, // EMI|LUMP_SUM , recorded|paid_off|rejected|failed
	)

	LoansPaidOffTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lending_loans_paid_off_total",
			Help: "Loans that reached PAID_OFF",
		},
	)

	ProjectedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lending_projector_events_total",
			Help: "Payment events consumed by the projector by result",
		},
		[]string{"result"}, // stored|skipped|failed
	)
)

var registerOnce sync.Once

// MustRegister registers all collectors once; later calls are no-ops.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			LoansCreatedTotal,
			PaymentsTotal,
			LoansPaidOffTotal,
			ProjectedEventsTotal,
		)
	})
}
