package google

import (
	"fmt"
	"strconv"
	"time"

	"kamela/internal/core"
)

// Row layouts, one sheet per entity. The first row of each sheet is a header
// and data starts at row 2.
//
//	Transactions: ID | Kind | Category | Amount | Description | Date | CreatedAt
//	Obligations:  ID | Kind | Counterparty | Contact | Principal | AmountPaid |
//	              InterestRate | StartDate | DueDate | Status | Notes | CreatedAt
//	Repayments:   ID | ObligationID | Amount | Date | Notes | CreatedAt
const (
	transactionLastCol = "G"
	obligationLastCol  = "L"
	repaymentLastCol   = "F"
)

const dateLayout = "2006-01-02"

func encodeTransactionRow(t core.Transaction) []interface{} {
	return []interface{}{
		t.ID,
		string(t.Kind),
		t.Category,
		t.Amount.String(),
		t.Description,
		t.Date.Format(dateLayout),
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeTransactionRow(row []string) (core.Transaction, error) {
	if len(row) == 0 || row[0] == "" {
		return core.Transaction{}, errEmptyRow
	}
	amount, err := core.ParseMoney(safeGet(row, 3))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction amount: %w", err)
	}
	date, err := parseDate(safeGet(row, 5))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction date: %w", err)
	}
	createdAt, err := parseTimestamp(safeGet(row, 6))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction created_at: %w", err)
	}
	return core.Transaction{
		ID:          row[0],
		Kind:        core.TransactionKind(safeGet(row, 1)),
		Category:    safeGet(row, 2),
		Amount:      amount,
		Description: safeGet(row, 4),
		Date:        date,
		CreatedAt:   createdAt,
	}, nil
}

func encodeObligationRow(o core.Obligation) []interface{} {
	due := ""
	if !o.DueDate.IsEmpty() {
		due = o.DueDate.Format(dateLayout)
	}
	return []interface{}{
		o.ID,
		string(o.Kind),
		o.Counterparty,
		o.Contact,
		o.Principal.String(),
		o.AmountPaid.String(),
		strconv.FormatFloat(o.InterestRate, 'f', -1, 64),
		o.StartDate.Format(dateLayout),
		due,
		string(o.Status),
		o.Notes,
		o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeObligationRow(row []string) (core.Obligation, error) {
	if len(row) == 0 || row[0] == "" {
		return core.Obligation{}, errEmptyRow
	}
	principal, err := core.ParseMoney(safeGet(row, 4))
	if err != nil {
		return core.Obligation{}, fmt.Errorf("obligation principal: %w", err)
	}
	paid, err := core.ParseMoney(safeGet(row, 5))
	if err != nil {
		return core.Obligation{}, fmt.Errorf("obligation amount paid: %w", err)
	}
	rate, err := strconv.ParseFloat(safeGet(row, 6), 64)
	if err != nil {
		return core.Obligation{}, fmt.Errorf("obligation interest rate: %w", err)
	}
	start, err := parseDate(safeGet(row, 7))
	if err != nil {
		return core.Obligation{}, fmt.Errorf("obligation start date: %w", err)
	}
	var due core.Date
	if s := safeGet(row, 8); s != "" {
		if due, err = parseDate(s); err != nil {
			return core.Obligation{}, fmt.Errorf("obligation due date: %w", err)
		}
	}
	createdAt, err := parseTimestamp(safeGet(row, 11))
	if err != nil {
		return core.Obligation{}, fmt.Errorf("obligation created_at: %w", err)
	}
	return core.Obligation{
		ID:           row[0],
		Kind:         core.ObligationKind(safeGet(row, 1)),
		Counterparty: safeGet(row, 2),
		Contact:      safeGet(row, 3),
		Principal:    principal,
		AmountPaid:   paid,
		InterestRate: rate,
		StartDate:    start,
		DueDate:      due,
		Status:       core.ObligationStatus(safeGet(row, 9)),
		Notes:        safeGet(row, 10),
		CreatedAt:    createdAt,
	}, nil
}

func encodeRepaymentRow(r core.Repayment) []interface{} {
	return []interface{}{
		r.ID,
		r.ObligationID,
		r.Amount.String(),
		r.Date.Format(dateLayout),
		r.Notes,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeRepaymentRow(row []string) (core.Repayment, error) {
	if len(row) == 0 || row[0] == "" {
		return core.Repayment{}, errEmptyRow
	}
	amount, err := core.ParseMoney(safeGet(row, 2))
	if err != nil {
		return core.Repayment{}, fmt.Errorf("repayment amount: %w", err)
	}
	date, err := parseDate(safeGet(row, 3))
	if err != nil {
		return core.Repayment{}, fmt.Errorf("repayment date: %w", err)
	}
	createdAt, err := parseTimestamp(safeGet(row, 5))
	if err != nil {
		return core.Repayment{}, fmt.Errorf("repayment created_at: %w", err)
	}
	return core.Repayment{
		ID:           row[0],
		ObligationID: safeGet(row, 1),
		Amount:       amount,
		Date:         date,
		Notes:        safeGet(row, 4),
		CreatedAt:    createdAt,
	}, nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func toStrings(in []interface{}) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
