package core

import (
	"errors"
	"fmt"
)

// Error taxonomy roots. Every error leaving the engine matches exactly one of
// these via errors.Is: validation errors are recoverable by correcting input,
// not-found errors by refreshing the view, storage errors are surfaced as-is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

var (
	ErrInvalidAmount      = fmt.Errorf("invalid amount: %w", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("invalid date: %w", ErrValidation)
	ErrInvalidKind        = fmt.Errorf("invalid kind: %w", ErrValidation)
	ErrEmptyCategory      = fmt.Errorf("empty category: %w", ErrValidation)
	ErrEmptyCounterparty  = fmt.Errorf("empty counterparty: %w", ErrValidation)
	ErrEmptyObligationID  = fmt.Errorf("empty obligation id: %w", ErrValidation)
	ErrNegativeRate       = fmt.Errorf("negative interest rate: %w", ErrValidation)
	ErrInvalidRepayment   = fmt.Errorf("invalid repayment amount: %w", ErrValidation)
	ErrInconsistentStatus = fmt.Errorf("status does not match paid amount: %w", ErrValidation)
)

// StorageErrorf wraps a backend failure so that errors.Is(err, ErrStorage)
// holds while the original cause stays inspectable. Domain errors pass
// through untouched.
func StorageErrorf(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}
