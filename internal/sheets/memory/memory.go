// Package memory is an in-process store used for tests and local
// development. It implements the same ports as the SQLite and Google Sheets
// backends, including all-or-nothing atomic units via snapshot and swap.
package memory

import (
	"context"
	"sync"

	"kamela/internal/core"
	"kamela/internal/store"
)

type data struct {
	transactions []core.Transaction
	obligations  []core.Obligation
	repayments   []core.Repayment
}

type Store struct {
	mu sync.Mutex
	// gate serializes atomic units so a failed unit can roll back by
	// discarding its scratch copy without interleaved writers.
	gate sync.Mutex
	data data
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.transactions = append(s.data.transactions, t)
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.data.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.data.transactions {
		if t.ID == id {
			s.data.transactions = append(s.data.transactions[:i], s.data.transactions[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.data.transactions...), nil
}

func (s *Store) AppendObligation(_ context.Context, o core.Obligation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.obligations = append(s.data.obligations, o)
	return nil
}

func (s *Store) GetObligation(_ context.Context, id string) (core.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.data.obligations {
		if o.ID == id {
			return o, nil
		}
	}
	return core.Obligation{}, core.ErrNotFound
}

func (s *Store) UpdateObligation(_ context.Context, o core.Obligation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.data.obligations {
		if existing.ID == o.ID {
			s.data.obligations[i] = o
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListObligations(_ context.Context) ([]core.Obligation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Obligation(nil), s.data.obligations...), nil
}

func (s *Store) AppendRepayment(_ context.Context, r core.Repayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.repayments = append(s.data.repayments, r)
	return nil
}

func (s *Store) GetRepayment(_ context.Context, id string) (core.Repayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.data.repayments {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Repayment{}, core.ErrNotFound
}

func (s *Store) ListRepayments(_ context.Context, obligationID string) ([]core.Repayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Repayment
	for _, r := range s.data.repayments {
		if r.ObligationID == obligationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// RunAtomic runs fn against a scratch copy of the store and adopts the copy
// only when fn succeeds. Any error leaves the store untouched.
func (s *Store) RunAtomic(ctx context.Context, fn func(store.Store) error) error {
	s.gate.Lock()
	defer s.gate.Unlock()

	s.mu.Lock()
	scratch := &Store{data: data{
		transactions: append([]core.Transaction(nil), s.data.transactions...),
		obligations:  append([]core.Obligation(nil), s.data.obligations...),
		repayments:   append([]core.Repayment(nil), s.data.repayments...),
	}}
	s.mu.Unlock()

	if err := fn(scratch); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = scratch.data
	s.mu.Unlock()
	return nil
}
