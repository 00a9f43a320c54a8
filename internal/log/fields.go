package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldTransaction  = "transaction_id"
	FieldObligation   = "obligation_id"
	FieldRepayment    = "repayment_id"
	FieldCounterparty = "counterparty"
	FieldAmountCents  = "amount_cents"
	FieldKind         = "kind"
	FieldStatus       = "status"
	FieldBackend      = "backend"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentLedger     = "ledger"
	ComponentObligation = "obligation"
	ComponentRepayment  = "repayment"
	ComponentStorage    = "storage"
	ComponentSheets     = "sheets"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpRecord   = "record"
	OpOpen     = "open"
	OpApply    = "apply"
	OpDelete   = "delete"
	OpList     = "list"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
