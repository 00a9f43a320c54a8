// Package storage implements the persistent store on a local SQLite file
// using the pure Go driver. Schema management runs through embedded
// migrations; atomic units map to SQL transactions.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"kamela/internal/core"
	"kamela/internal/store"

	_ "modernc.org/sqlite"
)

// sqliteStore carries the port methods over a DBTX, so the same code serves
// both the pooled connection and an open transaction.
type sqliteStore struct {
	q *queries
}

// SQLiteRepository is the local relational backend.
type SQLiteRepository struct {
	sqliteStore
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// foreign_keys enforces the obligation -> repayment cascade on every
	// pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		sqliteStore: sqliteStore{q: newQueries(db)},
		db:          db,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (s *sqliteStore) AppendTransaction(ctx context.Context, t core.Transaction) error {
	if err := s.q.CreateTransaction(ctx, t); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	t, err := s.q.GetTransaction(ctx, id)
	if err != nil {
		if err == core.ErrNotFound {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (s *sqliteStore) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.q.DeleteTransaction(ctx, id); err != nil {
		if err == core.ErrNotFound {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *sqliteStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	out, err := s.q.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (s *sqliteStore) AppendObligation(ctx context.Context, o core.Obligation) error {
	if err := s.q.CreateObligation(ctx, o); err != nil {
		return fmt.Errorf("create obligation: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetObligation(ctx context.Context, id string) (core.Obligation, error) {
	o, err := s.q.GetObligation(ctx, id)
	if err != nil {
		if err == core.ErrNotFound {
			return core.Obligation{}, err
		}
		return core.Obligation{}, fmt.Errorf("get obligation: %w", err)
	}
	return o, nil
}

func (s *sqliteStore) UpdateObligation(ctx context.Context, o core.Obligation) error {
	if err := s.q.UpdateObligation(ctx, o); err != nil {
		if err == core.ErrNotFound {
			return err
		}
		return fmt.Errorf("update obligation: %w", err)
	}
	return nil
}

func (s *sqliteStore) ListObligations(ctx context.Context) ([]core.Obligation, error) {
	out, err := s.q.ListObligations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	return out, nil
}

func (s *sqliteStore) AppendRepayment(ctx context.Context, r core.Repayment) error {
	if err := s.q.CreateRepayment(ctx, r); err != nil {
		return fmt.Errorf("create repayment: %w", err)
	}
	return nil
}

func (s *sqliteStore) GetRepayment(ctx context.Context, id string) (core.Repayment, error) {
	r, err := s.q.GetRepayment(ctx, id)
	if err != nil {
		if err == core.ErrNotFound {
			return core.Repayment{}, err
		}
		return core.Repayment{}, fmt.Errorf("get repayment: %w", err)
	}
	return r, nil
}

func (s *sqliteStore) ListRepayments(ctx context.Context, obligationID string) ([]core.Repayment, error) {
	out, err := s.q.ListRepaymentsByObligation(ctx, obligationID)
	if err != nil {
		return nil, fmt.Errorf("list repayments: %w", err)
	}
	return out, nil
}

// txStore is a sqliteStore bound to an open transaction. Nested atomic units
// join the enclosing transaction.
type txStore struct {
	sqliteStore
}

func (t *txStore) RunAtomic(_ context.Context, fn func(store.Store) error) error {
	return fn(t)
}

// RunAtomic wraps fn in a SQL transaction: every write commits together or
// the transaction rolls back and nothing is visible.
func (r *SQLiteRepository) RunAtomic(ctx context.Context, fn func(store.Store) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	ts := &txStore{sqliteStore{q: newQueries(tx)}}
	if err := fn(ts); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
