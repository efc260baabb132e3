// Package sheets appends run output to a master Google Sheet and reads back
// the fingerprints already exported, so repeated runs only add genuinely
// new rows.
package sheets

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// Columns is the sheet header, in order. The Hash column is the
// idempotency key for cross-run deduplication.
var Columns = []string{
	"Added At", "Category", "Title", "Company", "Location", "Date Posted",
	"Date Confidence", "Apply URL", "Posting URL", "Source", "Hash",
	"Status", "Status Reason", "Track Match",
}

// legacyColumns is the header written before Status / Status Reason /
// Track Match existed. EnsureHeader migrates it in place.
const legacyColumnCount = 11

const hashColumn = "K" // 1-based column of "Hash"

// Exporter writes postings to one worksheet of one spreadsheet.
type Exporter struct {
	svc       *sheets.Service
	sheetID   string
	sheetName string
}

// NewExporter authorizes with a service-account JSON key and returns an
// Exporter for spreadsheet sheetID. The spreadsheet must be shared with the
// service account.
func NewExporter(ctx context.Context, serviceAccountJSON []byte, sheetID string) (*Exporter, error) {
	creds, err := google.CredentialsFromJSON(ctx, serviceAccountJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account JSON: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets.NewService: %w", err)
	}
	return &Exporter{svc: svc, sheetID: sheetID, sheetName: "Sheet1"}, nil
}

// EnsureHeader makes row 1 match Columns. An empty sheet gets the full
// header; a legacy header (first 11 columns) gets the missing columns
// appended. Any other mismatch is an error so a foreign sheet is never
// overwritten.
func (e *Exporter) EnsureHeader(ctx context.Context) error {
	resp, err := e.svc.Spreadsheets.Values.Get(e.sheetID, e.sheetName+"!1:1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}

	var header []string
	if len(resp.Values) > 0 {
		for _, v := range resp.Values[0] {
			header = append(header, fmt.Sprintf("%v", v))
		}
	}

	switch {
	case len(header) == 0:
		return e.writeHeader(ctx)
	case matches(header, Columns):
		return nil
	case len(header) == legacyColumnCount && matches(header, Columns[:legacyColumnCount]):
		log.Printf("[sheets] migrating legacy %d-column header, appending %d columns",
			legacyColumnCount, len(Columns)-legacyColumnCount)
		return e.writeHeader(ctx)
	default:
		return fmt.Errorf("sheet header does not match expected columns; refusing to write (got %v)", header)
	}
}

func (e *Exporter) writeHeader(ctx context.Context) error {
	row := make([]interface{}, len(Columns))
	for i, c := range Columns {
		row[i] = c
	}
	_, err := e.svc.Spreadsheets.Values.Update(e.sheetID, e.sheetName+"!1:1",
		&sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

// SeenHashes reads the Hash column and returns every fingerprint already on
// the sheet.
func (e *Exporter) SeenHashes(ctx context.Context) (map[string]struct{}, error) {
	rng := fmt.Sprintf("%s!%s2:%s", e.sheetName, hashColumn, hashColumn)
	resp, err := e.svc.Spreadsheets.Values.Get(e.sheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read hash column: %w", err)
	}
	seen := make(map[string]struct{}, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if h := fmt.Sprintf("%v", row[0]); h != "" {
			seen[h] = struct{}{}
		}
	}
	return seen, nil
}

// Append adds one row per posting. The caller is expected to have
// deduplicated against SeenHashes already; Append does not re-check.
func (e *Exporter) Append(ctx context.Context, postings []*model.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(postings))
	for _, p := range postings {
		rows = append(rows, Row(p, now))
	}
	_, err := e.svc.Spreadsheets.Values.Append(e.sheetID, e.sheetName+"!A:N",
		&sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %d rows: %w", len(rows), err)
	}
	log.Printf("[sheets] appended %d row(s)", len(rows))
	return nil
}

// Row renders one posting as a sheet row in Columns order.
func Row(p *model.Posting, addedAt string) []interface{} {
	datePosted := ""
	if p.DatePosted != nil {
		datePosted = p.DatePosted.Format("2006-01-02")
	}
	trackMatch := "no"
	if p.TrackMatch {
		trackMatch = "yes"
	}
	return []interface{}{
		addedAt, p.Category, p.Title, p.Company, p.Location, datePosted,
		string(p.DateConfidence), p.ApplyURL, p.PostingURL, string(p.Source),
		p.Fingerprint, string(p.Status), p.StatusReason, trackMatch,
	}
}

func matches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
