package services

import "context"

// Entity names carried by ledger events.
const (
	EntityTransaction = "transaction"
	EntityObligation  = "obligation"
	EntityRepayment   = "repayment"
)

// EventPublisher notifies downstream consumers (the sheets mirror worker)
// that a row was committed. Publishing is best-effort: a failed publish is
// logged and never fails the originating call, because the local store is
// already consistent and the worker reconciles missed rows periodically.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, entity, id string) error
}
