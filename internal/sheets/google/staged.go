package google

import (
	"context"
	"errors"
	"fmt"

	gsheet "google.golang.org/api/sheets/v4"

	"kamela/internal/core"
	"kamela/internal/store"
)

// stagedStore buffers writes issued inside an atomic unit. Reads go through
// to the document with the unit's own writes overlaid. flush resolves every
// buffered write to a concrete cell range and commits them in a single batch
// update; the caller already holds the client gate, so row positions cannot
// shift underneath the unit.
type stagedStore struct {
	client *Client

	appendedTransactions []core.Transaction
	appendedObligations  []core.Obligation
	appendedRepayments   []core.Repayment
	updatedObligations   map[string]core.Obligation
}

var _ store.Store = (*stagedStore)(nil)

func (s *stagedStore) AppendTransaction(_ context.Context, t core.Transaction) error {
	s.appendedTransactions = append(s.appendedTransactions, t)
	return nil
}

func (s *stagedStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	for _, t := range s.appendedTransactions {
		if t.ID == id {
			return t, nil
		}
	}
	return s.client.GetTransaction(ctx, id)
}

func (s *stagedStore) DeleteTransaction(context.Context, string) error {
	// The engine's only multi-entity unit never deletes; staging a delete
	// would require tracking row shifts across the batch.
	return errors.New("transaction delete inside an atomic unit is not supported")
}

func (s *stagedStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	out, err := s.client.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return append(out, s.appendedTransactions...), nil
}

func (s *stagedStore) AppendObligation(_ context.Context, o core.Obligation) error {
	s.appendedObligations = append(s.appendedObligations, o)
	return nil
}

func (s *stagedStore) GetObligation(ctx context.Context, id string) (core.Obligation, error) {
	if o, ok := s.updatedObligations[id]; ok {
		return o, nil
	}
	for _, o := range s.appendedObligations {
		if o.ID == id {
			return o, nil
		}
	}
	return s.client.GetObligation(ctx, id)
}

func (s *stagedStore) UpdateObligation(ctx context.Context, o core.Obligation) error {
	// Updating a row appended in the same unit rewrites the buffer entry.
	for i, appended := range s.appendedObligations {
		if appended.ID == o.ID {
			s.appendedObligations[i] = o
			return nil
		}
	}
	if _, ok := s.updatedObligations[o.ID]; !ok {
		if _, err := s.client.GetObligation(ctx, o.ID); err != nil {
			return err
		}
	}
	s.updatedObligations[o.ID] = o
	return nil
}

func (s *stagedStore) ListObligations(ctx context.Context) ([]core.Obligation, error) {
	stored, err := s.client.ListObligations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Obligation, 0, len(stored)+len(s.appendedObligations))
	for _, o := range stored {
		if updated, ok := s.updatedObligations[o.ID]; ok {
			o = updated
		}
		out = append(out, o)
	}
	return append(out, s.appendedObligations...), nil
}

func (s *stagedStore) AppendRepayment(_ context.Context, r core.Repayment) error {
	s.appendedRepayments = append(s.appendedRepayments, r)
	return nil
}

func (s *stagedStore) GetRepayment(ctx context.Context, id string) (core.Repayment, error) {
	for _, r := range s.appendedRepayments {
		if r.ID == id {
			return r, nil
		}
	}
	return s.client.GetRepayment(ctx, id)
}

func (s *stagedStore) ListRepayments(ctx context.Context, obligationID string) ([]core.Repayment, error) {
	out, err := s.client.ListRepayments(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	for _, r := range s.appendedRepayments {
		if r.ObligationID == obligationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// RunAtomic nested inside an atomic unit joins the enclosing unit.
func (s *stagedStore) RunAtomic(_ context.Context, fn func(store.Store) error) error {
	return fn(s)
}

// flush commits every staged write in one batch update.
func (s *stagedStore) flush(ctx context.Context) error {
	var data []*gsheet.ValueRange

	add := func(sheet, lastCol string, rowIdx int, row []interface{}) {
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!A%d:%s%d", sheet, rowIdx, lastCol, rowIdx),
			Values: [][]interface{}{row},
		})
	}

	for id, o := range s.updatedObligations {
		rowIdx, err := s.client.findRow(ctx, s.client.obligationsSheet, id)
		if err != nil {
			return fmt.Errorf("locate obligation %s: %w", id, err)
		}
		add(s.client.obligationsSheet, obligationLastCol, rowIdx, encodeObligationRow(o))
	}

	appends := []struct {
		sheet   string
		lastCol string
		rows    [][]interface{}
	}{
		{s.client.transactionsSheet, transactionLastCol, encodeAll(s.appendedTransactions, encodeTransactionRow)},
		{s.client.obligationsSheet, obligationLastCol, encodeAll(s.appendedObligations, encodeObligationRow)},
		{s.client.repaymentsSheet, repaymentLastCol, encodeAll(s.appendedRepayments, encodeRepaymentRow)},
	}
	for _, a := range appends {
		if len(a.rows) == 0 {
			continue
		}
		next, err := s.client.nextRow(ctx, a.sheet)
		if err != nil {
			return err
		}
		for i, row := range a.rows {
			add(a.sheet, a.lastCol, next+i, row)
		}
	}

	if len(data) == 0 {
		return nil
	}

	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := s.client.svc.Spreadsheets.Values.BatchUpdate(s.client.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("commit batch update: %w", err)
	}
	return nil
}

func encodeAll[T any](items []T, encode func(T) []interface{}) [][]interface{} {
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, encode(item))
	}
	return rows
}
