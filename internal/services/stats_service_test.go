package services

import (
	"context"
	"testing"

	"kamela/internal/core"
	"kamela/internal/sheets/memory"
)

func TestStatsService_Compute(t *testing.T) {
	engine := NewEngine(memory.New(), nil)
	ctx := context.Background()

	engine.Transactions.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "", core.NewDate(2025, 3, 1))
	engine.Transactions.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 2))
	engine.Transactions.Record(ctx, core.Expense, "Groceries", core.Money{Cents: 4500}, "", core.NewDate(2025, 3, 15))
	// Outside the requested month but still part of the balance.
	engine.Transactions.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "", core.NewDate(2025, 2, 1))

	openWithDue(t, engine, "Active", core.NewDate(2025, 6, 1))
	settled := openWithDue(t, engine, "Settled", core.NewDate(2025, 6, 1))
	if _, err := engine.Repayments.Apply(ctx, settled.ID, settled.Principal, core.NewDate(2025, 3, 20), ""); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	stats, err := engine.Stats.Compute(ctx, 2025, 3)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if stats.Year != 2025 || stats.Month != 3 {
		t.Errorf("period = %d-%d, want 2025-3", stats.Year, stats.Month)
	}
	if stats.MonthlyIncome.Cents != 250000 {
		t.Errorf("monthly income = %d, want 250000", stats.MonthlyIncome.Cents)
	}
	// March expenses include the mirrored settlement payment.
	wantExpense := int64(90000 + 4500 + settled.Principal.Cents)
	if stats.MonthlyExpense.Cents != wantExpense {
		t.Errorf("monthly expense = %d, want %d", stats.MonthlyExpense.Cents, wantExpense)
	}
	wantBalance := int64(250000 + 250000 - 90000 - 4500 - settled.Principal.Cents)
	if stats.Balance.Cents != wantBalance {
		t.Errorf("balance = %d, want %d", stats.Balance.Cents, wantBalance)
	}
	if stats.ActiveObligations != 1 {
		t.Errorf("active obligations = %d, want 1", stats.ActiveObligations)
	}
}

func TestStatsService_Compute_EmptyLedger(t *testing.T) {
	engine := NewEngine(memory.New(), nil)

	stats, err := engine.Stats.Compute(context.Background(), 2025, 3)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if stats.Balance.Cents != 0 || stats.MonthlyIncome.Cents != 0 || stats.MonthlyExpense.Cents != 0 {
		t.Errorf("empty ledger stats = %+v, want all zero", stats)
	}
	if stats.ActiveObligations != 0 {
		t.Errorf("active obligations = %d, want 0", stats.ActiveObligations)
	}
}
