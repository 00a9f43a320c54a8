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

// ObligationService is the ledger of debts owed and loans receivable. It
// owns creation and read access; paid-to-date and status are mutated only by
// the RepaymentProcessor.
type ObligationService struct {
	store  store.Store
	events EventPublisher
}

// OpenObligationParams carries the caller-supplied fields of a new obligation.
type OpenObligationParams struct {
	Kind         core.ObligationKind
	Counterparty string
	Contact      string
	Principal    core.Money
	InterestRate float64
	StartDate    core.Date
	DueDate      core.Date // optional, zero value means none
	Notes        string
}

// ObligationFilter narrows List results. Zero values match everything.
type ObligationFilter struct {
	Kind   core.ObligationKind
	Status core.ObligationStatus
}

func NewObligationService(st store.Store, events EventPublisher) *ObligationService {
	return &ObligationService{store: st, events: events}
}

// Open records a new obligation with nothing paid yet.
func (s *ObligationService) Open(ctx context.Context, p OpenObligationParams) (core.Obligation, error) {
	o := core.Obligation{
		ID:           uuid.NewString(),
		Kind:         p.Kind,
		Counterparty: p.Counterparty,
		Contact:      p.Contact,
		Principal:    p.Principal,
		AmountPaid:   core.Money{},
		InterestRate: p.InterestRate,
		StartDate:    p.StartDate,
		DueDate:      p.DueDate,
		Status:       core.StatusActive,
		Notes:        p.Notes,
		CreatedAt:    time.Now().UTC(),
	}
	if err := o.Validate(); err != nil {
		return core.Obligation{}, err
	}
	if err := s.store.AppendObligation(ctx, o); err != nil {
		return core.Obligation{}, core.StorageErrorf("open obligation", err)
	}

	slog.InfoContext(ctx, "Obligation opened",
		"obligation_id", o.ID,
		"kind", o.Kind,
		"counterparty", o.Counterparty,
		"principal_cents", o.Principal.Cents)

	s.publish(ctx, EntityObligation, o.ID)
	return o, nil
}

func (s *ObligationService) Get(ctx context.Context, id string) (core.Obligation, error) {
	o, err := s.store.GetObligation(ctx, id)
	if err != nil {
		return core.Obligation{}, core.StorageErrorf("get obligation", err)
	}
	return o, nil
}

// List returns obligations ascending by due date, undated obligations last.
func (s *ObligationService) List(ctx context.Context, filter ObligationFilter) ([]core.Obligation, error) {
	all, err := s.store.ListObligations(ctx)
	if err != nil {
		return nil, core.StorageErrorf("list obligations", err)
	}
	out := make([]core.Obligation, 0, len(all))
	for _, o := range all {
		if filter.Kind != "" && o.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di.IsEmpty() && dj.IsEmpty():
			return false
		case di.IsEmpty():
			return false
		case dj.IsEmpty():
			return true
		default:
			return di.Before(dj.Time)
		}
	})
	return out, nil
}

// Remaining returns the unpaid part of an obligation's principal.
func (s *ObligationService) Remaining(ctx context.Context, id string) (core.Money, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return core.Money{}, err
	}
	return o.Remaining(), nil
}

// Repayments returns the repayment trail of an obligation in creation order.
func (s *ObligationService) Repayments(ctx context.Context, id string) ([]core.Repayment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	reps, err := s.store.ListRepayments(ctx, id)
	if err != nil {
		return nil, core.StorageErrorf("list repayments", err)
	}
	return reps, nil
}

func (s *ObligationService) publish(ctx context.Context, entity, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, entity, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", entity, "id", id, "error", err)
	}
}
