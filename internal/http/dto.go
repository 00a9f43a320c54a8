package http

import (
	"time"

	"kamela/internal/core"
)

// Wire representations. Amounts travel as decimal strings ("12.34"), dates as
// "2006-01-02", timestamps as RFC 3339.

type transactionView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt"`
}

type obligationView struct {
	ID           string  `json:"id"`
	Kind         string  `json:"kind"`
	Counterparty string  `json:"counterparty"`
	Contact      string  `json:"contact,omitempty"`
	Principal    string  `json:"principal"`
	AmountPaid   string  `json:"amountPaid"`
	Remaining    string  `json:"remaining"`
	InterestRate float64 `json:"interestRate"`
	StartDate    string  `json:"startDate"`
	DueDate      string  `json:"dueDate,omitempty"`
	Status       string  `json:"status"`
	Notes        string  `json:"notes,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

type repaymentView struct {
	ID           string `json:"id"`
	ObligationID string `json:"obligationId"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

type applyResultView struct {
	Repayment   repaymentView   `json:"repayment"`
	Obligation  obligationView  `json:"obligation"`
	Transaction transactionView `json:"transaction"`
}

type statsView struct {
	Year              int    `json:"year"`
	Month             int    `json:"month"`
	Balance           string `json:"balance"`
	MonthlyIncome     string `json:"monthlyIncome"`
	MonthlyExpense    string `json:"monthlyExpense"`
	ActiveObligations int    `json:"activeObligations"`
}

type deadlineView struct {
	Obligation    obligationView `json:"obligation"`
	DaysRemaining int            `json:"daysRemaining"`
	Tier          string         `json:"tier"`
}

type alertView struct {
	Kind         string `json:"kind"`
	Balance      string `json:"balance,omitempty"`
	OverdueCount int    `json:"overdueCount,omitempty"`
}

func toTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Category:    t.Category,
		Amount:      t.Amount.String(),
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func toObligationView(o core.Obligation) obligationView {
	v := obligationView{
		ID:           o.ID,
		Kind:         string(o.Kind),
		Counterparty: o.Counterparty,
		Contact:      o.Contact,
		Principal:    o.Principal.String(),
		AmountPaid:   o.AmountPaid.String(),
		Remaining:    o.Remaining().String(),
		InterestRate: o.InterestRate,
		StartDate:    o.StartDate.Format(dateLayout),
		Status:       string(o.Status),
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
	}
	if !o.DueDate.IsEmpty() {
		v.DueDate = o.DueDate.Format(dateLayout)
	}
	return v
}

func toRepaymentView(r core.Repayment) repaymentView {
	return repaymentView{
		ID:           r.ID,
		ObligationID: r.ObligationID,
		Amount:       r.Amount.String(),
		Date:         r.Date.Format(dateLayout),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

func toStatsView(s core.Stats) statsView {
	return statsView{
		Year:              s.Year,
		Month:             s.Month,
		Balance:           s.Balance.String(),
		MonthlyIncome:     s.MonthlyIncome.String(),
		MonthlyExpense:    s.MonthlyExpense.String(),
		ActiveObligations: s.ActiveObligations,
	}
}

func toDeadlineView(e core.DeadlineEntry) deadlineView {
	return deadlineView{
		Obligation:    toObligationView(e.Obligation),
		DaysRemaining: e.DaysRemaining,
		Tier:          string(e.Tier),
	}
}

func toAlertView(a core.Alert) alertView {
	v := alertView{Kind: string(a.Kind), OverdueCount: a.OverdueCount}
	if a.Kind == core.AlertNegativeBalance {
		v.Balance = a.Balance.String()
	}
	return v
}
