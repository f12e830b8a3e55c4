// Package metrics exposes Prometheus counters for the expense engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsRecorded counts expenses transitioned out of pending.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paguen_payments_recorded_total",
		Help: "Number of expense payments recorded.",
	})

	// Confirmations counts individual confirmation acknowledgements.
	Confirmations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paguen_confirmations_total",
		Help: "Number of expense confirmations recorded.",
	})

	// ExpensesSettled counts expenses that reached the settled state.
	ExpensesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paguen_expenses_settled_total",
		Help: "Number of expenses fully confirmed and settled.",
	})

	// Transfers counts direct member-to-member transfers.
	Transfers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paguen_transfers_total",
		Help: "Number of direct transfers materialized.",
	})

	// BalanceRuns counts balance computations by outcome.
	BalanceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paguen_balance_runs_total",
		Help: "Number of household balance computations.",
	}, []string{"status"})
)
