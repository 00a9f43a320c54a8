package services

import (
	"context"

	"kamela/internal/core"
)

// StatsService computes the dashboard summary on demand from ledger
// contents. It holds no state of its own, so every call reflects the latest
// committed rows.
type StatsService struct {
	transactions *TransactionService
	obligations  *ObligationService
}

func NewStatsService(tx *TransactionService, ob *ObligationService) *StatsService {
	return &StatsService{transactions: tx, obligations: ob}
}

// Compute returns balance, income and expense totals for the given month,
// and the number of active obligations.
func (s *StatsService) Compute(ctx context.Context, year, month int) (core.Stats, error) {
	balance, err := s.transactions.Balance(ctx)
	if err != nil {
		return core.Stats{}, err
	}
	income, err := s.transactions.MonthlyTotal(ctx, core.Income, year, month)
	if err != nil {
		return core.Stats{}, err
	}
	expense, err := s.transactions.MonthlyTotal(ctx, core.Expense, year, month)
	if err != nil {
		return core.Stats{}, err
	}
	active, err := s.obligations.List(ctx, ObligationFilter{Status: core.StatusActive})
	if err != nil {
		return core.Stats{}, err
	}
	return core.Stats{
		Year:              year,
		Month:             month,
		Balance:           balance,
		MonthlyIncome:     income,
		MonthlyExpense:    expense,
		ActiveObligations: len(active),
	}, nil
}
