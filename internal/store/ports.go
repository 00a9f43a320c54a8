// Package store defines the abstract persistent store the ledger engine is
// written against. The engine never touches a concrete backend directly; the
// SQLite file, the Google Sheets document and the in-memory store all satisfy
// these ports, so the reconciliation logic exists exactly once.
package store

import (
	"context"

	"kamela/internal/core"
)

type (
	// TransactionStore persists cash-flow entries. Rows are append-only
	// except for deletion; there are no in-place edits.
	TransactionStore interface {
		AppendTransaction(ctx context.Context, t core.Transaction) error
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// DeleteTransaction removes the entry, or core.ErrNotFound.
		DeleteTransaction(ctx context.Context, id string) error
		// ListTransactions returns all entries in insertion order; callers
		// own filtering and presentation ordering.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// ObligationStore persists debts and receivables. Obligations are never
	// hard-deleted in normal flow; settlement is the terminal state.
	ObligationStore interface {
		AppendObligation(ctx context.Context, o core.Obligation) error
		GetObligation(ctx context.Context, id string) (core.Obligation, error)
		// UpdateObligation replaces the stored row, or core.ErrNotFound.
		UpdateObligation(ctx context.Context, o core.Obligation) error
		ListObligations(ctx context.Context) ([]core.Obligation, error)
	}

	// RepaymentStore persists the append-only repayment trail.
	RepaymentStore interface {
		AppendRepayment(ctx context.Context, r core.Repayment) error
		GetRepayment(ctx context.Context, id string) (core.Repayment, error)
		ListRepayments(ctx context.Context, obligationID string) ([]core.Repayment, error)
	}

	// Atomic runs fn so that every write issued through the passed store
	// commits together or not at all. On error the store is left in its
	// pre-call state. Implementations serialize writers; nesting is allowed
	// and joins the enclosing unit.
	Atomic interface {
		RunAtomic(ctx context.Context, fn func(Store) error) error
	}

	// Store is the full capability set a backend provides.
	Store interface {
		TransactionStore
		ObligationStore
		RepaymentStore
		Atomic
	}
)
