package services

import (
	"kamela/internal/store"
)

// Engine bundles the ledger services behind a single boundary object for the
// presentation layer. All components share one store; the readers are pure
// derivations over it.
type Engine struct {
	Transactions *TransactionService
	Obligations  *ObligationService
	Repayments   *RepaymentProcessor
	Stats        *StatsService
	Deadlines    *DeadlineClassifier
	Alerts       *AlertEvaluator
}

// NewEngine wires the services against a store. events may be nil when no
// downstream mirror is configured.
func NewEngine(st store.Store, events EventPublisher) *Engine {
	tx := NewTransactionService(st, events)
	ob := NewObligationService(st, events)
	return &Engine{
		Transactions: tx,
		Obligations:  ob,
		Repayments:   NewRepaymentProcessor(st, events),
		Stats:        NewStatsService(tx, ob),
		Deadlines:    NewDeadlineClassifier(ob),
		Alerts:       NewAlertEvaluator(tx, ob),
	}
}
