package core

// Derived, view-time types. Everything here is recomputable from ledger
// contents; nothing in this file is ever persisted.

// Tier is the urgency bucket of an active obligation based on days remaining
// until its due date.
type Tier string

const (
	TierUrgent  Tier = "urgent"  // due within urgentDays
	TierWarning Tier = "warning" // due within warningDays
	TierNormal  Tier = "normal"
)

const (
	urgentDays  = 3
	warningDays = 7
)

// TierFor buckets a days-remaining value.
func TierFor(daysRemaining int) Tier {
	switch {
	case daysRemaining <= urgentDays:
		return TierUrgent
	case daysRemaining <= warningDays:
		return TierWarning
	default:
		return TierNormal
	}
}

// DeadlineEntry is one row of the forward-looking deadline view.
type DeadlineEntry struct {
	Obligation    Obligation
	DaysRemaining int
	Tier          Tier
}

// AlertKind identifies a warning condition derived from ledger state.
type AlertKind string

const (
	AlertNegativeBalance    AlertKind = "negative_balance"
	AlertOverdueObligations AlertKind = "overdue_obligations"
)

// Alert is a view-time warning. An overdue alert never transitions the
// obligation's persisted status; overdue is not a stored state.
type Alert struct {
	Kind AlertKind
	// Balance carries the current balance for negative-balance alerts.
	Balance Money
	// OverdueCount carries the number of past-due active obligations for
	// overdue alerts.
	OverdueCount int
}

// Stats is the on-demand dashboard summary for a specific year+month.
type Stats struct {
	Year              int
	Month             int // 1-12
	Balance           Money
	MonthlyIncome     Money
	MonthlyExpense    Money
	ActiveObligations int
}
