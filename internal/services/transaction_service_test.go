package services

import (
	"context"
	"errors"
	"testing"

	"kamela/internal/core"
	"kamela/internal/sheets/memory"
)

func TestTransactionService_Record(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	tx, err := svc.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "March pay", core.NewDate(2025, 3, 1))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if tx.ID == "" {
		t.Error("Record should assign an id")
	}
	if tx.CreatedAt.IsZero() {
		t.Error("Record should stamp creation time")
	}

	list, err := svc.List(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != tx.ID {
		t.Errorf("List = %v, want the recorded entry", list)
	}
}

func TestTransactionService_Record_Invalid(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     core.TransactionKind
		category string
		amount   core.Money
		date     core.Date
		wantErr  error
	}{
		{name: "bad kind", kind: "transfer", category: "Misc", amount: core.Money{Cents: 100}, date: core.NewDate(2025, 1, 1), wantErr: core.ErrInvalidKind},
		{name: "empty category", kind: core.Expense, category: "", amount: core.Money{Cents: 100}, date: core.NewDate(2025, 1, 1), wantErr: core.ErrEmptyCategory},
		{name: "zero amount", kind: core.Expense, category: "Misc", amount: core.Money{}, date: core.NewDate(2025, 1, 1), wantErr: core.ErrInvalidAmount},
		{name: "missing date", kind: core.Expense, category: "Misc", amount: core.Money{Cents: 100}, wantErr: core.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tt.kind, tt.category, tt.amount, "", tt.date)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Record error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing should have been stored.
	list, err := svc.List(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("store should be empty after rejected records, got %d entries", len(list))
	}
}

func TestTransactionService_List_Ordering(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	first, _ := svc.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 1))
	second, _ := svc.Record(ctx, core.Expense, "Groceries", core.Money{Cents: 4500}, "", core.NewDate(2025, 3, 15))
	// Same date as first, created later: must come before first.
	third, _ := svc.Record(ctx, core.Income, "Refund", core.Money{Cents: 2000}, "", core.NewDate(2025, 3, 1))

	list, err := svc.List(ctx, TransactionFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	wantOrder := []string{second.ID, third.ID, first.ID}
	if len(list) != len(wantOrder) {
		t.Fatalf("List returned %d entries, want %d", len(list), len(wantOrder))
	}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestTransactionService_List_KindFilter(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	svc.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "", core.NewDate(2025, 3, 1))
	svc.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 2))

	incomes, err := svc.List(ctx, TransactionFilter{Kind: core.Income})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(incomes) != 1 || incomes[0].Kind != core.Income {
		t.Errorf("kind filter returned %v, want one income entry", incomes)
	}
}

func TestTransactionService_Delete(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	tx, _ := svc.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 1))
	if err := svc.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, tx.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("deleting twice = %v, want ErrNotFound", err)
	}
}

func TestTransactionService_Balance(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	balance, err := svc.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance.Cents != 0 {
		t.Errorf("empty ledger balance = %d, want 0", balance.Cents)
	}

	svc.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "", core.NewDate(2025, 3, 1))
	svc.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 2))
	svc.Record(ctx, core.Expense, "Groceries", core.Money{Cents: 4550}, "", core.NewDate(2025, 3, 3))

	balance, err = svc.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if want := int64(250000 - 90000 - 4550); balance.Cents != want {
		t.Errorf("Balance = %d, want %d", balance.Cents, want)
	}
}

func TestTransactionService_Balance_Negative(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	svc.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 1))

	balance, err := svc.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.IsNegative() {
		t.Errorf("Balance = %d, want negative", balance.Cents)
	}
}

func TestTransactionService_MonthlyTotal(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	svc.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "", core.NewDate(2025, 3, 1))
	svc.Record(ctx, core.Income, "Refund", core.Money{Cents: 2000}, "", core.NewDate(2025, 3, 20))
	svc.Record(ctx, core.Income, "Salary", core.Money{Cents: 250000}, "", core.NewDate(2025, 4, 1))
	svc.Record(ctx, core.Expense, "Rent", core.Money{Cents: 90000}, "", core.NewDate(2025, 3, 2))

	income, err := svc.MonthlyTotal(ctx, core.Income, 2025, 3)
	if err != nil {
		t.Fatalf("MonthlyTotal failed: %v", err)
	}
	if income.Cents != 252000 {
		t.Errorf("march income = %d, want 252000", income.Cents)
	}

	expense, err := svc.MonthlyTotal(ctx, core.Expense, 2025, 3)
	if err != nil {
		t.Fatalf("MonthlyTotal failed: %v", err)
	}
	if expense.Cents != 90000 {
		t.Errorf("march expense = %d, want 90000", expense.Cents)
	}

	empty, err := svc.MonthlyTotal(ctx, core.Expense, 2025, 7)
	if err != nil {
		t.Fatalf("MonthlyTotal failed: %v", err)
	}
	if empty.Cents != 0 {
		t.Errorf("month with no entries = %d, want 0", empty.Cents)
	}
}
