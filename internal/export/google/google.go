package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"edupay/internal/core"
	ports "edupay/internal/export"
	"edupay/internal/reports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client writes monthly summaries to a Google Spreadsheet. Each month gets
// its own tab, e.g. "Summary 2024-03", rewritten in full on every export.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base tab name without the month; code suffixes the month key.
	summaryBase string
}

// Ensure interface conformance
var _ ports.SummaryWriter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet. Credentials come
// from the service account environment variables.
func New(ctx context.Context, spreadsheetID, summaryBase string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	summaryBase = strings.TrimSpace(summaryBase)
	if summaryBase == "" {
		summaryBase = "Summary"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		summaryBase:   summaryBase,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
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

// WriteMonthlySummary rewrites the month's tab with the summary table and
// the sheet-by-level matrix below it.
func (c *Client) WriteMonthlySummary(ctx context.Context, summary reports.MonthlySummary, matrix reports.SheetMatrix) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheetName := c.summarySheetName(summary.Month)
	if err := c.ensureSheet(ctx, sheetName); err != nil {
		return fmt.Errorf("ensure sheet %s: %w", sheetName, err)
	}

	values := buildSummaryRows(summary, matrix)
	rng := fmt.Sprintf("%s!A1", sheetName)
	vr := &gsheet.ValueRange{Values: values}

	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", sheetName, err)
	}

	slog.InfoContext(ctx, "Wrote monthly summary to spreadsheet",
		"sheet", sheetName,
		"month", summary.Month,
		"rows", len(values))

	return nil
}

func (c *Client) summarySheetName(month string) string {
	return fmt.Sprintf("%s %s", c.summaryBase, month)
}

// ensureSheet adds the tab if it does not exist yet. The Sheets API has no
// idempotent create, so an "already exists" error is treated as success.
func (c *Client) ensureSheet(ctx context.Context, sheetName string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: sheetName},
			},
		}},
	}

	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

// buildSummaryRows lays out the export tab: the per-bucket cash/K-pay
// summary first, then the sheet-by-level cash matrix.
func buildSummaryRows(summary reports.MonthlySummary, matrix reports.SheetMatrix) [][]any {
	buckets := exportBuckets(summary)

	values := [][]any{
		{"Monthly Summary", summary.Month},
		{},
		{"Level", "Cash Count", "K-pay Count", "Total"},
	}
	for _, b := range buckets {
		cash := summary.Cash.Counts[b]
		kpay := summary.KPay.Counts[b]
		values = append(values, []any{string(b), cash, kpay, cash + kpay})
	}
	values = append(values,
		[]any{"Total Students", summary.Cash.TotalCount, summary.KPay.TotalCount, summary.GrossCount()},
		[]any{"Total Amount (Ks)", int64(summary.Cash.TotalAmount), int64(summary.KPay.TotalAmount), int64(summary.GrossAmount())},
		[]any{},
		[]any{"Cash by Sheet", summary.Month},
	)

	matrixHeader := []any{"Sheet No"}
	for _, b := range buckets {
		matrixHeader = append(matrixHeader, string(b))
	}
	matrixHeader = append(matrixHeader, "Row Total", "Row Amount (Ks)")
	values = append(values, matrixHeader)

	for sheet := core.MinSheetNo; sheet <= core.MaxSheetNo; sheet++ {
		row := []any{sheet}
		for _, b := range buckets {
			row = append(row, matrix.Cells[sheet][b].Count)
		}
		total := matrix.RowTotal(sheet)
		row = append(row, total.Count, int64(total.Amount))
		values = append(values, row)
	}

	footer := []any{"Total"}
	for _, b := range buckets {
		footer = append(footer, matrix.ColumnTotal(b).Count)
	}
	grand := matrix.GrandTotal()
	footer = append(footer, grand.Count, int64(grand.Amount))
	values = append(values, footer)

	return values
}

// exportBuckets returns the canonical bucket order, appending Other only
// when the month actually produced overflow entries.
func exportBuckets(summary reports.MonthlySummary) []core.SummaryBucket {
	buckets := append([]core.SummaryBucket(nil), core.SummaryBuckets...)
	if summary.Cash.Counts[core.BucketOther] > 0 || summary.KPay.Counts[core.BucketOther] > 0 {
		buckets = append(buckets, core.BucketOther)
	}
	return buckets
}
