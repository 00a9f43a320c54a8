// Package worker mirrors committed ledger rows from the local store into the
// remote spreadsheet copy. The local store is the source of truth; the
// mirror is eventually consistent and missed events are repaired by the
// periodic reconciliation pass.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kamela/internal/amqp"
	"kamela/internal/core"
	"kamela/internal/store"
)

type SyncWorker struct {
	local  store.Store
	remote store.Store
}

func NewSyncWorker(local, remote store.Store) *SyncWorker {
	return &SyncWorker{local: local, remote: remote}
}

// HandleLedgerEvent mirrors the row named by one event.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"entity", msg.Entity,
		"id", msg.ID)

	switch msg.Entity {
	case "transaction":
		return w.mirrorTransaction(ctx, msg.ID)
	case "obligation":
		return w.mirrorObligation(ctx, msg.ID)
	case "repayment":
		return w.mirrorRepayment(ctx, msg.ID)
	default:
		// Unknown entities are dropped rather than requeued forever.
		slog.WarnContext(ctx, "Unknown ledger event entity, dropping",
			"entity", msg.Entity, "id", msg.ID)
		return nil
	}
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, id string) error {
	t, err := w.local.GetTransaction(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted locally after the event was published: delete the mirror.
		if err := w.remote.DeleteTransaction(ctx, id); err != nil && !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("delete mirrored transaction: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("get local transaction: %w", err)
	}

	if _, err := w.remote.GetTransaction(ctx, id); err == nil {
		return nil // already mirrored
	} else if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("check mirrored transaction: %w", err)
	}
	if err := w.remote.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}
	return nil
}

func (w *SyncWorker) mirrorObligation(ctx context.Context, id string) error {
	o, err := w.local.GetObligation(ctx, id)
	if err != nil {
		return fmt.Errorf("get local obligation: %w", err)
	}

	_, err = w.remote.GetObligation(ctx, id)
	switch {
	case err == nil:
		if err := w.remote.UpdateObligation(ctx, o); err != nil {
			return fmt.Errorf("update mirrored obligation: %w", err)
		}
	case errors.Is(err, core.ErrNotFound):
		if err := w.remote.AppendObligation(ctx, o); err != nil {
			return fmt.Errorf("mirror obligation: %w", err)
		}
	default:
		return fmt.Errorf("check mirrored obligation: %w", err)
	}
	return nil
}

func (w *SyncWorker) mirrorRepayment(ctx context.Context, id string) error {
	r, err := w.local.GetRepayment(ctx, id)
	if err != nil {
		return fmt.Errorf("get local repayment: %w", err)
	}

	if _, err := w.remote.GetRepayment(ctx, id); err == nil {
		return nil // already mirrored
	} else if !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("check mirrored repayment: %w", err)
	}
	if err := w.remote.AppendRepayment(ctx, r); err != nil {
		return fmt.Errorf("mirror repayment: %w", err)
	}
	return nil
}

// Reconcile mirrors every local row missing from the remote copy and brings
// obligation rows up to date. It runs at startup and on a timer, covering
// lost events and worker downtime.
func (w *SyncWorker) Reconcile(ctx context.Context) error {
	localObligations, err := w.local.ListObligations(ctx)
	if err != nil {
		return fmt.Errorf("list local obligations: %w", err)
	}

	synced := 0
	for _, o := range localObligations {
		if err := w.mirrorObligation(ctx, o.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile obligation",
				"obligation_id", o.ID, "error", err)
			continue
		}
		synced++

		reps, err := w.local.ListRepayments(ctx, o.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list local repayments",
				"obligation_id", o.ID, "error", err)
			continue
		}
		for _, r := range reps {
			if err := w.mirrorRepayment(ctx, r.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to reconcile repayment",
					"repayment_id", r.ID, "error", err)
			}
		}
	}

	localTransactions, err := w.local.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list local transactions: %w", err)
	}
	for _, t := range localTransactions {
		if err := w.mirrorTransaction(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to reconcile transaction",
				"transaction_id", t.ID, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Reconciliation pass completed",
		"obligations", len(localObligations),
		"transactions", len(localTransactions),
		"synced", synced)
	return nil
}
