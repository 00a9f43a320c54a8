// Package google implements the persistent store on a Google Sheets
// document, one sheet per entity. The document has whole-table replace
// semantics and no server-side transactions, so all mutating calls serialize
// through an in-process gate and multi-row units are staged into a single
// batch update; overlapping external edits are last-write-wins.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"kamela/internal/core"
	"kamela/internal/store"
)

var errEmptyRow = errors.New("empty row")

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	transactionsSheet string
	obligationsSheet  string
	repaymentsSheet   string

	// gate serializes every mutating call (single-writer discipline for a
	// non-transactional shared medium).
	gate sync.Mutex

	sheetIDMu sync.Mutex
	sheetIDs  map[string]int64
}

var _ store.Store = (*Client)(nil)

// NewFromEnv creates a Sheets-backed store from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. Optional sheet names:
// GOOGLE_TRANSACTIONS_SHEET (default "Transactions"),
// GOOGLE_OBLIGATIONS_SHEET (default "Obligations"),
// GOOGLE_REPAYMENTS_SHEET (default "Repayments").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsSheet: envOr("GOOGLE_TRANSACTIONS_SHEET", "Transactions"),
		obligationsSheet:  envOr("GOOGLE_OBLIGATIONS_SHEET", "Obligations"),
		repaymentsSheet:   envOr("GOOGLE_REPAYMENTS_SHEET", "Repayments"),
		sheetIDs:          make(map[string]int64),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets service using service account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		var err error
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// readRows returns all data rows of a sheet as strings, header excluded.
// Blank rows (cleared by deletes from other clients) are skipped by decoders.
func (c *Client) readRows(ctx context.Context, sheet, lastCol string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID,
		fmt.Sprintf("%s!A2:%s", sheet, lastCol)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		rows = append(rows, toStrings(raw))
	}
	return rows, nil
}

// findRow returns the 1-based sheet row of the entity with the given id, or
// core.ErrNotFound.
func (c *Client) findRow(ctx context.Context, sheet, id string) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A2:A").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s ids: %w", sheet, err)
	}
	for i, raw := range resp.Values {
		row := toStrings(raw)
		if len(row) > 0 && row[0] == id {
			return i + 2, nil
		}
	}
	return 0, core.ErrNotFound
}

// nextRow returns the first free 1-based row of a sheet.
func (c *Client) nextRow(ctx context.Context, sheet string) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s length: %w", sheet, err)
	}
	return len(resp.Values) + 1, nil
}

func (c *Client) appendRow(ctx context.Context, sheet, lastCol string, row []interface{}) error {
	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID,
		fmt.Sprintf("%s!A:%s", sheet, lastCol), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

func (c *Client) updateRow(ctx context.Context, sheet, lastCol string, rowIdx int, row []interface{}) error {
	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID,
		fmt.Sprintf("%s!A%d:%s%d", sheet, rowIdx, lastCol, rowIdx), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", sheet, rowIdx, err)
	}
	return nil
}

// sheetID resolves and caches the numeric id of a named sheet, needed for
// structural requests such as row deletion.
func (c *Client) sheetID(ctx context.Context, name string) (int64, error) {
	c.sheetIDMu.Lock()
	defer c.sheetIDMu.Unlock()
	if id, ok := c.sheetIDs[name]; ok {
		return id, nil
	}
	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties != nil {
			c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := c.sheetIDs[name]
	if !ok {
		return 0, fmt.Errorf("sheet %q not found in spreadsheet", name)
	}
	return id, nil
}

func (c *Client) deleteRow(ctx context.Context, sheet string, rowIdx int) error {
	id, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(rowIdx - 1),
					EndIndex:   int64(rowIdx),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s row %d: %w", sheet, rowIdx, err)
	}
	return nil
}

func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	return c.appendRow(ctx, c.transactionsSheet, transactionLastCol, encodeTransactionRow(t))
}

func (c *Client) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	all, err := c.ListTransactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	rowIdx, err := c.findRow(ctx, c.transactionsSheet, id)
	if err != nil {
		return err
	}
	return c.deleteRow(ctx, c.transactionsSheet, rowIdx)
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := c.readRows(ctx, c.transactionsSheet, transactionLastCol)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, row := range rows {
		t, err := decodeTransactionRow(row)
		if err == errEmptyRow {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Client) AppendObligation(ctx context.Context, o core.Obligation) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	return c.appendRow(ctx, c.obligationsSheet, obligationLastCol, encodeObligationRow(o))
}

func (c *Client) GetObligation(ctx context.Context, id string) (core.Obligation, error) {
	all, err := c.ListObligations(ctx)
	if err != nil {
		return core.Obligation{}, err
	}
	for _, o := range all {
		if o.ID == id {
			return o, nil
		}
	}
	return core.Obligation{}, core.ErrNotFound
}

func (c *Client) UpdateObligation(ctx context.Context, o core.Obligation) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	rowIdx, err := c.findRow(ctx, c.obligationsSheet, o.ID)
	if err != nil {
		return err
	}
	return c.updateRow(ctx, c.obligationsSheet, obligationLastCol, rowIdx, encodeObligationRow(o))
}

func (c *Client) ListObligations(ctx context.Context) ([]core.Obligation, error) {
	rows, err := c.readRows(ctx, c.obligationsSheet, obligationLastCol)
	if err != nil {
		return nil, err
	}
	var out []core.Obligation
	for _, row := range rows {
		o, err := decodeObligationRow(row)
		if err == errEmptyRow {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (c *Client) AppendRepayment(ctx context.Context, r core.Repayment) error {
	c.gate.Lock()
	defer c.gate.Unlock()
	return c.appendRow(ctx, c.repaymentsSheet, repaymentLastCol, encodeRepaymentRow(r))
}

func (c *Client) GetRepayment(ctx context.Context, id string) (core.Repayment, error) {
	rows, err := c.readRows(ctx, c.repaymentsSheet, repaymentLastCol)
	if err != nil {
		return core.Repayment{}, err
	}
	for _, row := range rows {
		r, err := decodeRepaymentRow(row)
		if err == errEmptyRow {
			continue
		}
		if err != nil {
			return core.Repayment{}, err
		}
		if r.ID == id {
			return r, nil
		}
	}
	return core.Repayment{}, core.ErrNotFound
}

func (c *Client) ListRepayments(ctx context.Context, obligationID string) ([]core.Repayment, error) {
	rows, err := c.readRows(ctx, c.repaymentsSheet, repaymentLastCol)
	if err != nil {
		return nil, err
	}
	var out []core.Repayment
	for _, row := range rows {
		r, err := decodeRepaymentRow(row)
		if err == errEmptyRow {
			continue
		}
		if err != nil {
			return nil, err
		}
		if r.ObligationID == obligationID {
			out = append(out, r)
		}
	}
	return out, nil
}

// RunAtomic stages every write issued by fn and lands them in one
// values.BatchUpdate call, so a multi-row unit either fully commits or, on
// any failure, leaves the document untouched. The gate is held for the whole
// unit; reads inside fn see pre-unit state plus the unit's own writes.
func (c *Client) RunAtomic(ctx context.Context, fn func(store.Store) error) error {
	c.gate.Lock()
	defer c.gate.Unlock()

	s := &stagedStore{client: c, updatedObligations: make(map[string]core.Obligation)}
	if err := fn(s); err != nil {
		return err
	}
	return s.flush(ctx)
}
