package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"kamela/internal/amqp"
	"kamela/internal/core"
	"kamela/internal/sheets/memory"
)

func seedTransaction(t *testing.T, st *memory.Store, id string) core.Transaction {
	t.Helper()
	tr := core.Transaction{
		ID:        id,
		Kind:      core.Expense,
		Category:  "Groceries",
		Amount:    core.Money{Cents: 1000},
		Date:      core.NewDate(2025, 3, 1),
		CreatedAt: time.Now().UTC(),
	}
	if err := st.AppendTransaction(context.Background(), tr); err != nil {
		t.Fatalf("AppendTransaction failed: %v", err)
	}
	return tr
}

func seedObligation(t *testing.T, st *memory.Store, id string) core.Obligation {
	t.Helper()
	o := core.Obligation{
		ID:           id,
		Kind:         core.Owed,
		Counterparty: "Alice",
		Principal:    core.Money{Cents: 50000},
		StartDate:    core.NewDate(2025, 1, 1),
		Status:       core.StatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.AppendObligation(context.Background(), o); err != nil {
		t.Fatalf("AppendObligation failed: %v", err)
	}
	return o
}

func TestSyncWorker_HandleLedgerEvent_Transaction(t *testing.T) {
	local, remote := memory.New(), memory.New()
	w := NewSyncWorker(local, remote)
	ctx := context.Background()

	tr := seedTransaction(t, local, "tx-1")
	msg := &amqp.LedgerEventMessage{Entity: "transaction", ID: tr.ID}

	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("HandleLedgerEvent failed: %v", err)
	}
	if _, err := remote.GetTransaction(ctx, tr.ID); err != nil {
		t.Errorf("transaction not mirrored: %v", err)
	}

	// Replaying the same event must not duplicate the row.
	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	list, _ := remote.ListTransactions(ctx)
	if len(list) != 1 {
		t.Errorf("remote has %d transactions after replay, want 1", len(list))
	}
}

func TestSyncWorker_HandleLedgerEvent_DeletedTransaction(t *testing.T) {
	local, remote := memory.New(), memory.New()
	w := NewSyncWorker(local, remote)
	ctx := context.Background()

	// Row exists remotely but was deleted locally after the event fired.
	tr := seedTransaction(t, remote, "tx-1")

	msg := &amqp.LedgerEventMessage{Entity: "transaction", ID: tr.ID}
	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("HandleLedgerEvent failed: %v", err)
	}
	if _, err := remote.GetTransaction(ctx, tr.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("remote mirror should be deleted, got %v", err)
	}
}

func TestSyncWorker_HandleLedgerEvent_ObligationUpdate(t *testing.T) {
	local, remote := memory.New(), memory.New()
	w := NewSyncWorker(local, remote)
	ctx := context.Background()

	o := seedObligation(t, local, "ob-1")
	msg := &amqp.LedgerEventMessage{Entity: "obligation", ID: o.ID}

	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("HandleLedgerEvent failed: %v", err)
	}

	// Local row changes; the same event kind brings the mirror up to date.
	o.AmountPaid = core.Money{Cents: 10000}
	if err := local.UpdateObligation(ctx, o); err != nil {
		t.Fatalf("UpdateObligation failed: %v", err)
	}
	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("HandleLedgerEvent failed: %v", err)
	}

	got, err := remote.GetObligation(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetObligation failed: %v", err)
	}
	if got.AmountPaid.Cents != 10000 {
		t.Errorf("mirrored amount paid = %d, want 10000", got.AmountPaid.Cents)
	}
}

func TestSyncWorker_HandleLedgerEvent_UnknownEntity(t *testing.T) {
	w := NewSyncWorker(memory.New(), memory.New())

	msg := &amqp.LedgerEventMessage{Entity: "category", ID: "x"}
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Errorf("unknown entity should be dropped without error, got %v", err)
	}
}

func TestSyncWorker_Reconcile(t *testing.T) {
	local, remote := memory.New(), memory.New()
	w := NewSyncWorker(local, remote)
	ctx := context.Background()

	o := seedObligation(t, local, "ob-1")
	rep := core.Repayment{
		ID:           "rp-1",
		ObligationID: o.ID,
		Amount:       core.Money{Cents: 10000},
		Date:         core.NewDate(2025, 2, 1),
		CreatedAt:    time.Now().UTC(),
	}
	if err := local.AppendRepayment(ctx, rep); err != nil {
		t.Fatalf("AppendRepayment failed: %v", err)
	}
	seedTransaction(t, local, "tx-1")
	seedTransaction(t, local, "tx-2")

	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if _, err := remote.GetObligation(ctx, o.ID); err != nil {
		t.Errorf("obligation not reconciled: %v", err)
	}
	if _, err := remote.GetRepayment(ctx, rep.ID); err != nil {
		t.Errorf("repayment not reconciled: %v", err)
	}
	txs, _ := remote.ListTransactions(ctx)
	if len(txs) != 2 {
		t.Errorf("remote has %d transactions after reconcile, want 2", len(txs))
	}

	// Reconcile is idempotent.
	if err := w.Reconcile(ctx); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	txs, _ = remote.ListTransactions(ctx)
	if len(txs) != 2 {
		t.Errorf("remote has %d transactions after second reconcile, want 2", len(txs))
	}
}
