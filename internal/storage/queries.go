package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kamela/internal/core"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every query can run
// inside or outside an atomic unit.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db DBTX
}

func newQueries(db DBTX) *queries {
	return &queries{db: db}
}

const dateLayout = "2006-01-02"

func encodeDate(d core.Date) string {
	return d.Format(dateLayout)
}

func encodeOptionalDate(d core.Date) sql.NullString {
	if d.IsEmpty() {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeDate(d), Valid: true}
}

func decodeDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("decode date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func decodeOptionalDate(s sql.NullString) (core.Date, error) {
	if !s.Valid || s.String == "" {
		return core.Date{}, nil
	}
	return decodeDate(s.String)
}

func (q *queries) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO transactions (id, kind, category, amount_cents, description, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.Kind), t.Category, t.Amount.Cents, t.Description,
		encodeDate(t.Date), t.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (q *queries) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, kind, category, amount_cents, description, date, created_at
		FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (q *queries) DeleteTransaction(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, kind, category, amount_cents, description, date, created_at
		FROM transactions ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *queries) CreateObligation(ctx context.Context, o core.Obligation) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO obligations (id, kind, counterparty, contact, principal_cents,
			amount_paid_cents, interest_rate, start_date, due_date, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, string(o.Kind), o.Counterparty, o.Contact, o.Principal.Cents,
		o.AmountPaid.Cents, o.InterestRate, encodeDate(o.StartDate),
		encodeOptionalDate(o.DueDate), string(o.Status), o.Notes,
		o.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (q *queries) GetObligation(ctx context.Context, id string) (core.Obligation, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, kind, counterparty, contact, principal_cents, amount_paid_cents,
			interest_rate, start_date, due_date, status, notes, created_at
		FROM obligations WHERE id = ?`, id)
	return scanObligation(row)
}

func (q *queries) UpdateObligation(ctx context.Context, o core.Obligation) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE obligations
		SET kind = ?, counterparty = ?, contact = ?, principal_cents = ?,
			amount_paid_cents = ?, interest_rate = ?, start_date = ?, due_date = ?,
			status = ?, notes = ?
		WHERE id = ?`,
		string(o.Kind), o.Counterparty, o.Contact, o.Principal.Cents,
		o.AmountPaid.Cents, o.InterestRate, encodeDate(o.StartDate),
		encodeOptionalDate(o.DueDate), string(o.Status), o.Notes, o.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *queries) ListObligations(ctx context.Context) ([]core.Obligation, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, kind, counterparty, contact, principal_cents, amount_paid_cents,
			interest_rate, start_date, due_date, status, notes, created_at
		FROM obligations ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (q *queries) CreateRepayment(ctx context.Context, r core.Repayment) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO repayments (id, obligation_id, amount_cents, date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ObligationID, r.Amount.Cents, encodeDate(r.Date), r.Notes,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

func (q *queries) GetRepayment(ctx context.Context, id string) (core.Repayment, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT id, obligation_id, amount_cents, date, notes, created_at
		FROM repayments WHERE id = ?`, id)
	var (
		r         core.Repayment
		date      string
		createdAt string
	)
	err := row.Scan(&r.ID, &r.ObligationID, &r.Amount.Cents, &date, &r.Notes, &createdAt)
	if err == sql.ErrNoRows {
		return core.Repayment{}, core.ErrNotFound
	}
	if err != nil {
		return core.Repayment{}, err
	}
	if r.Date, err = decodeDate(date); err != nil {
		return core.Repayment{}, err
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Repayment{}, fmt.Errorf("decode created_at: %w", err)
	}
	return r, nil
}

func (q *queries) ListRepaymentsByObligation(ctx context.Context, obligationID string) ([]core.Repayment, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, obligation_id, amount_cents, date, notes, created_at
		FROM repayments WHERE obligation_id = ? ORDER BY created_at ASC, rowid ASC`,
		obligationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Repayment
	for rows.Next() {
		var (
			r         core.Repayment
			date      string
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.ObligationID, &r.Amount.Cents, &date, &r.Notes, &createdAt); err != nil {
			return nil, err
		}
		if r.Date, err = decodeDate(date); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		kind      string
		date      string
		createdAt string
	)
	err := row.Scan(&t.ID, &kind, &t.Category, &t.Amount.Cents, &t.Description, &date, &createdAt)
	if err == sql.ErrNoRows {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.TransactionKind(kind)
	if t.Date, err = decodeDate(date); err != nil {
		return core.Transaction{}, err
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("decode created_at: %w", err)
	}
	return t, nil
}

func scanObligation(row rowScanner) (core.Obligation, error) {
	var (
		o         core.Obligation
		kind      string
		status    string
		startDate string
		dueDate   sql.NullString
		createdAt string
	)
	err := row.Scan(&o.ID, &kind, &o.Counterparty, &o.Contact, &o.Principal.Cents,
		&o.AmountPaid.Cents, &o.InterestRate, &startDate, &dueDate, &status,
		&o.Notes, &createdAt)
	if err == sql.ErrNoRows {
		return core.Obligation{}, core.ErrNotFound
	}
	if err != nil {
		return core.Obligation{}, err
	}
	o.Kind = core.ObligationKind(kind)
	o.Status = core.ObligationStatus(status)
	if o.StartDate, err = decodeDate(startDate); err != nil {
		return core.Obligation{}, err
	}
	if o.DueDate, err = decodeOptionalDate(dueDate); err != nil {
		return core.Obligation{}, err
	}
	if o.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return core.Obligation{}, fmt.Errorf("decode created_at: %w", err)
	}
	return o, nil
}
