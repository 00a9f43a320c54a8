package services

import (
	"context"

	"kamela/internal/core"
)

// AlertEvaluator derives warning conditions from the two ledgers. It is
// strictly read-only: reporting an obligation as overdue never changes its
// persisted status, which only ever moves from active to settled.
type AlertEvaluator struct {
	transactions *TransactionService
	obligations  *ObligationService
}

func NewAlertEvaluator(tx *TransactionService, ob *ObligationService) *AlertEvaluator {
	return &AlertEvaluator{transactions: tx, obligations: ob}
}

// Evaluate returns the alerts holding as of today. Both conditions are
// independent; an empty result means all is well.
func (e *AlertEvaluator) Evaluate(ctx context.Context, today core.Date) ([]core.Alert, error) {
	var alerts []core.Alert

	balance, err := e.transactions.Balance(ctx)
	if err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		alerts = append(alerts, core.Alert{
			Kind:    core.AlertNegativeBalance,
			Balance: balance,
		})
	}

	active, err := e.obligations.List(ctx, ObligationFilter{Status: core.StatusActive})
	if err != nil {
		return nil, err
	}
	overdue := 0
	for _, o := range active {
		if !o.DueDate.IsEmpty() && o.DueDate.Before(today.Time) {
			overdue++
		}
	}
	if overdue > 0 {
		alerts = append(alerts, core.Alert{
			Kind:         core.AlertOverdueObligations,
			OverdueCount: overdue,
		})
	}

	return alerts, nil
}
