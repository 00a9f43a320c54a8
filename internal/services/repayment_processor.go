package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kamela/internal/core"
	"kamela/internal/store"
)

// RepaymentProcessor applies repayments against obligations. It is the only
// component that mutates both ledgers: each apply records the repayment,
// updates the obligation's paid-to-date and status, and mirrors the cash
// effect into the transaction ledger as one atomic unit. A caller can never
// observe a repayment without its mirrored transaction or vice versa.
type RepaymentProcessor struct {
	store  store.Store
	events EventPublisher
}

// ApplyResult carries the three entities touched by a successful apply.
type ApplyResult struct {
	Repayment   core.Repayment
	Obligation  core.Obligation
	Transaction core.Transaction
}

func NewRepaymentProcessor(st store.Store, events EventPublisher) *RepaymentProcessor {
	return &RepaymentProcessor{store: st, events: events}
}

// Apply records a repayment of amount on the given obligation dated date.
// The amount must be positive and must not exceed the obligation's remaining
// balance; repayments never overshoot the principal. Once remaining reaches
// zero the obligation is settled and any further apply fails validation.
func (p *RepaymentProcessor) Apply(ctx context.Context, obligationID string, amount core.Money, date core.Date, notes string) (ApplyResult, error) {
	if amount.Cents <= 0 {
		return ApplyResult{}, core.ErrInvalidRepayment
	}
	if err := date.Validate(); err != nil {
		return ApplyResult{}, err
	}
	if notes == "" {
		notes = core.DefaultRepaymentNote
	}

	var result ApplyResult
	err := p.store.RunAtomic(ctx, func(st store.Store) error {
		o, err := st.GetObligation(ctx, obligationID)
		if err != nil {
			return err
		}
		if amount.Cents > o.Remaining().Cents {
			return core.ErrInvalidRepayment
		}

		now := time.Now().UTC()
		rep := core.Repayment{
			ID:           uuid.NewString(),
			ObligationID: o.ID,
			Amount:       amount,
			Date:         date,
			Notes:        notes,
			CreatedAt:    now,
		}
		if err := st.AppendRepayment(ctx, rep); err != nil {
			return err
		}

		o.AmountPaid = o.AmountPaid.Add(amount)
		o.Status = core.StatusFor(o.AmountPaid, o.Principal)
		if err := st.UpdateObligation(ctx, o); err != nil {
			return err
		}

		mirror := mirrorTransaction(o, amount, date, now)
		if err := st.AppendTransaction(ctx, mirror); err != nil {
			return err
		}

		result = ApplyResult{Repayment: rep, Obligation: o, Transaction: mirror}
		return nil
	})
	if err != nil {
		return ApplyResult{}, core.StorageErrorf("apply repayment", err)
	}

	slog.InfoContext(ctx, "Repayment applied",
		"repayment_id", result.Repayment.ID,
		"obligation_id", result.Obligation.ID,
		"transaction_id", result.Transaction.ID,
		"amount_cents", amount.Cents,
		"status", result.Obligation.Status)

	p.publish(ctx, EntityRepayment, result.Repayment.ID)
	p.publish(ctx, EntityObligation, result.Obligation.ID)
	p.publish(ctx, EntityTransaction, result.Transaction.ID)
	return result, nil
}

// mirrorTransaction builds the cash-flow entry for a repayment: paying down a
// debt is an outflow, collecting on a receivable is an inflow. The amount
// stays positive; the kind carries the sign.
func mirrorTransaction(o core.Obligation, amount core.Money, date core.Date, now time.Time) core.Transaction {
	kind := core.Expense
	description := fmt.Sprintf("Repayment to %s", o.Counterparty)
	if o.Kind == core.Receivable {
		kind = core.Income
		description = fmt.Sprintf("Repayment from %s", o.Counterparty)
	}
	return core.Transaction{
		ID:          uuid.NewString(),
		Kind:        kind,
		Category:    core.SettlementCategory,
		Amount:      amount,
		Description: description,
		Date:        date,
		CreatedAt:   now,
	}
}

func (p *RepaymentProcessor) publish(ctx context.Context, entity, id string) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishLedgerEvent(ctx, entity, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity, "id", id, "error", err)
	}
}
