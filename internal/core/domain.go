package core

import (
	"strings"
	"time"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

const (
	Owed       ObligationKind = "owed"
	Receivable ObligationKind = "receivable"
)

const (
	StatusActive  ObligationStatus = "active"
	StatusSettled ObligationStatus = "settled"
)

// SettlementCategory is the fixed category of transactions mirrored from a
// repayment. It keeps settlement cash flow distinguishable from direct entries.
const SettlementCategory = "Obligation settlement"

// DefaultRepaymentNote is used when a repayment is recorded without notes.
const DefaultRepaymentNote = "Partial repayment"

type (
	TransactionKind  string
	ObligationKind   string
	ObligationStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single cash-flow entry. The amount is always positive;
	// the sign of the cash effect is carried by Kind.
	Transaction struct {
		ID          string
		Kind        TransactionKind
		Category    string
		Amount      Money
		Description string
		Date        Date
		CreatedAt   time.Time
	}

	// Obligation is a tracked debt (Owed) or loan receivable (Receivable).
	// AmountPaid and Status are maintained exclusively by the repayment
	// processor; Status is derived from AmountPaid vs Principal.
	Obligation struct {
		ID           string
		Kind         ObligationKind
		Counterparty string
		Contact      string
		Principal    Money
		AmountPaid   Money
		InterestRate float64 // informational only, never auto-applied
		StartDate    Date
		DueDate      Date // zero value means no due date
		Status       ObligationStatus
		Notes        string
		CreatedAt    time.Time
	}

	// Repayment is one payment applied against an obligation. Append-only;
	// the amounts of all repayments of an obligation sum to its AmountPaid.
	Repayment struct {
		ID           string
		ObligationID string
		Amount       Money
		Date         Date
		Notes        string
		CreatedAt    time.Time
	}
)

func (k TransactionKind) IsValid() bool {
	return k == Income || k == Expense
}

func (k ObligationKind) IsValid() bool {
	return k == Owed || k == Receivable
}

func (s ObligationStatus) IsValid() bool {
	return s == StatusActive || s == StatusSettled
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (optional dates use the zero value).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// DaysUntil returns the whole number of days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// InMonth reports whether the date falls in the given calendar month.
func (d Date) InMonth(year, month int) bool {
	return d.Year() == year && int(d.Month()) == month
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

func (t Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

func (o Obligation) Validate() error {
	if !o.Kind.IsValid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(o.Counterparty) == "" {
		return ErrEmptyCounterparty
	}
	if err := o.Principal.Validate(); err != nil {
		return err
	}
	if o.AmountPaid.Cents < 0 || o.AmountPaid.Cents > o.Principal.Cents {
		return ErrInvalidAmount
	}
	if o.InterestRate < 0 {
		return ErrNegativeRate
	}
	if err := o.StartDate.Validate(); err != nil {
		return err
	}
	if o.Status != StatusFor(o.AmountPaid, o.Principal) {
		return ErrInconsistentStatus
	}
	return nil
}

// Remaining returns the unpaid part of the principal.
func (o Obligation) Remaining() Money {
	return o.Principal.Sub(o.AmountPaid)
}

func (r Repayment) Validate() error {
	if r.ObligationID == "" {
		return ErrEmptyObligationID
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return r.Date.Validate()
}

// StatusFor derives the obligation status from paid vs principal. Settled is
// terminal and holds exactly when the principal is fully covered.
func StatusFor(paid, principal Money) ObligationStatus {
	if paid.Cents >= principal.Cents {
		return StatusSettled
	}
	return StatusActive
}
