package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"kamela/internal/core"
	"kamela/internal/store"
)

// TransactionService is the cash-flow ledger. It records income and expense
// entries and derives balance and period totals by re-scanning stored rows,
// so derived values can never diverge from the facts.
type TransactionService struct {
	store  store.Store
	events EventPublisher
}

// TransactionFilter narrows List results. The zero value matches everything.
type TransactionFilter struct {
	Kind core.TransactionKind
}

func NewTransactionService(st store.Store, events EventPublisher) *TransactionService {
	return &TransactionService{store: st, events: events}
}

// Record validates and appends a new cash-flow entry.
func (s *TransactionService) Record(ctx context.Context, kind core.TransactionKind, category string, amount core.Money, description string, date core.Date) (core.Transaction, error) {
	t := core.Transaction{
		ID:          uuid.NewString(),
		Kind:        kind,
		Category:    category,
		Amount:      amount,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.AppendTransaction(ctx, t); err != nil {
		return core.Transaction{}, core.StorageErrorf("record transaction", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", t.ID,
		"kind", t.Kind,
		"category", t.Category,
		"amount_cents", t.Amount.Cents)

	s.publish(ctx, EntityTransaction, t.ID)
	return t, nil
}

// List returns entries most recent date first, ties broken by creation order
// descending. Ordering is applied here so every backend behaves identically.
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter) ([]core.Transaction, error) {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, core.StorageErrorf("list transactions", err)
	}
	out := make([]core.Transaction, 0, len(all))
	for _, t := range all {
		if filter.Kind != "" && t.Kind != filter.Kind {
			continue
		}
		out = append(out, t)
	}
	// Stores return rows in creation order; reversing first makes the stable
	// sort break date ties by creation order descending.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// Delete removes an entry by id.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return core.StorageErrorf("delete transaction", err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// Balance returns total income minus total expense over all entries,
// recomputed from a full scan on every call.
func (s *TransactionService) Balance(ctx context.Context) (core.Money, error) {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Money{}, core.StorageErrorf("compute balance", err)
	}
	var cents int64
	for _, t := range all {
		switch t.Kind {
		case core.Income:
			cents += t.Amount.Cents
		case core.Expense:
			cents -= t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}, nil
}

// MonthlyTotal sums entries of the given kind whose date falls in the given
// calendar month. A month with no matching entries yields zero.
func (s *TransactionService) MonthlyTotal(ctx context.Context, kind core.TransactionKind, year, month int) (core.Money, error) {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Money{}, core.StorageErrorf("compute monthly total", err)
	}
	var cents int64
	for _, t := range all {
		if t.Kind == kind && t.Date.InMonth(year, month) {
			cents += t.Amount.Cents
		}
	}
	return core.Money{Cents: cents}, nil
}

func (s *TransactionService) publish(ctx context.Context, entity, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, entity, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity, "id", id, "error", err)
	}
}
