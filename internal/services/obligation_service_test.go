package services

import (
	"context"
	"errors"
	"testing"

	"kamela/internal/core"
	"kamela/internal/sheets/memory"
)

func openParams() OpenObligationParams {
	return OpenObligationParams{
		Kind:         core.Owed,
		Counterparty: "Alice",
		Contact:      "alice@example.com",
		Principal:    core.Money{Cents: 50000},
		InterestRate: 0,
		StartDate:    core.NewDate(2025, 1, 1),
		DueDate:      core.NewDate(2025, 6, 1),
	}
}

func TestObligationService_Open(t *testing.T) {
	svc := NewObligationService(memory.New(), nil)
	ctx := context.Background()

	o, err := svc.Open(ctx, openParams())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if o.ID == "" {
		t.Error("Open should assign an id")
	}
	if o.Status != core.StatusActive {
		t.Errorf("new obligation status = %v, want active", o.Status)
	}
	if o.AmountPaid.Cents != 0 {
		t.Errorf("new obligation amount paid = %d, want 0", o.AmountPaid.Cents)
	}
	if o.Remaining().Cents != 50000 {
		t.Errorf("new obligation remaining = %d, want principal", o.Remaining().Cents)
	}
}

func TestObligationService_Open_Invalid(t *testing.T) {
	svc := NewObligationService(memory.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*OpenObligationParams)
		wantErr error
	}{
		{name: "bad kind", mutate: func(p *OpenObligationParams) { p.Kind = "gift" }, wantErr: core.ErrInvalidKind},
		{name: "empty counterparty", mutate: func(p *OpenObligationParams) { p.Counterparty = "" }, wantErr: core.ErrEmptyCounterparty},
		{name: "zero principal", mutate: func(p *OpenObligationParams) { p.Principal = core.Money{} }, wantErr: core.ErrInvalidAmount},
		{name: "negative rate", mutate: func(p *OpenObligationParams) { p.InterestRate = -1 }, wantErr: core.ErrNegativeRate},
		{name: "missing start date", mutate: func(p *OpenObligationParams) { p.StartDate = core.Date{} }, wantErr: core.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := openParams()
			tt.mutate(&p)
			_, err := svc.Open(ctx, p)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestObligationService_Get_NotFound(t *testing.T) {
	svc := NewObligationService(memory.New(), nil)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestObligationService_List_Ordering(t *testing.T) {
	svc := NewObligationService(memory.New(), nil)
	ctx := context.Background()

	undated := openParams()
	undated.Counterparty = "Undated"
	undated.DueDate = core.Date{}
	late := openParams()
	late.Counterparty = "Late"
	late.DueDate = core.NewDate(2025, 9, 1)
	early := openParams()
	early.Counterparty = "Early"
	early.DueDate = core.NewDate(2025, 2, 1)

	u, _ := svc.Open(ctx, undated)
	l, _ := svc.Open(ctx, late)
	e, _ := svc.Open(ctx, early)

	list, err := svc.List(ctx, ObligationFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	wantOrder := []string{e.ID, l.ID, u.ID}
	if len(list) != len(wantOrder) {
		t.Fatalf("List returned %d entries, want %d", len(list), len(wantOrder))
	}
	for i, id := range wantOrder {
		if list[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, list[i].Counterparty, id)
		}
	}
}

func TestObligationService_List_Filters(t *testing.T) {
	svc := NewObligationService(memory.New(), nil)
	ctx := context.Background()

	owed := openParams()
	svc.Open(ctx, owed)
	receivable := openParams()
	receivable.Kind = core.Receivable
	receivable.Counterparty = "Bob"
	svc.Open(ctx, receivable)

	got, err := svc.List(ctx, ObligationFilter{Kind: core.Receivable})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Kind != core.Receivable {
		t.Errorf("kind filter returned %v, want one receivable", got)
	}

	settled, err := svc.List(ctx, ObligationFilter{Status: core.StatusSettled})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(settled) != 0 {
		t.Errorf("status filter returned %d entries, want 0", len(settled))
	}
}

func TestObligationService_Repayments_NotFound(t *testing.T) {
	svc := NewObligationService(memory.New(), nil)

	_, err := svc.Repayments(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Repayments error = %v, want ErrNotFound", err)
	}
}
