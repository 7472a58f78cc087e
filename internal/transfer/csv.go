// Package transfer implements CSV import and export of transactions.
// CSV is the only interchange surface: exports are meant to be
// re-importable, so the import path accepts everything the export
// path produces.
package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"finanze/internal/core"
)

// Header is the column layout of an export, and what Import expects.
var Header = []string{"ID", "Description", "Amount", "Type", "Category", "Date"}

// ImportResult reports what an import pass did with the rows it read.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

var errHeaderMismatch = errors.New("unrecognized CSV header")

// Export writes the given transactions as CSV. Category references are
// resolved to names so the file is readable outside the app; amounts
// are decimal strings, dates RFC 3339.
func Export(w io.Writer, txs []core.Transaction, categories []core.Category) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, tx := range txs {
		var categoryName string
		if tx.Type == core.Expense {
			categoryName = core.ResolveCategory(tx.CategoryID, categories).Category.Name
		}
		record := []string{
			tx.ID,
			tx.Description,
			tx.Amount.FormatDecimal(),
			string(tx.Type),
			categoryName,
			tx.Date.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Import reads transactions from CSV into the given account.
//
// Rows whose ID already exists are skipped silently so re-importing an
// export is a no-op. Malformed rows are logged and skipped rather than
// failing the file. Category names are matched case-insensitively
// against the known categories; an unknown name falls back to the
// catch-all category, and income rows never carry one.
func Import(r io.Reader, accountID string, existing []core.Transaction, categories []core.Category) ([]core.Transaction, ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, ImportResult{}, fmt.Errorf("read header: %w", err)
	}
	if !headerMatches(header) {
		return nil, ImportResult{}, errHeaderMismatch
	}

	known := make(map[string]bool, len(existing))
	for _, tx := range existing {
		known[tx.ID] = true
	}
	categoryByName := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryByName[strings.ToLower(c.Name)] = c.ID
	}

	var (
		imported []core.Transaction
		res      ImportResult
		line     = 1
	)
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Skipping malformed CSV row", "line", line, "error", err)
			res.Skipped++
			continue
		}

		tx, err := parseRow(record, accountID, categoryByName)
		if err != nil {
			slog.Warn("Skipping invalid CSV row", "line", line, "error", err)
			res.Skipped++
			continue
		}

		if known[tx.ID] {
			res.Skipped++
			continue
		}
		known[tx.ID] = true
		imported = append(imported, tx)
		res.Imported++
	}

	return imported, res, nil
}

func headerMatches(got []string) bool {
	if len(got) != len(Header) {
		return false
	}
	for i, want := range Header {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want) {
			return false
		}
	}
	return true
}

func parseRow(record []string, accountID string, categoryByName map[string]string) (core.Transaction, error) {
	typ := core.TransactionType(strings.ToLower(strings.TrimSpace(record[3])))
	if typ != core.Income && typ != core.Expense {
		return core.Transaction{}, fmt.Errorf("%w: %q", core.ErrInvalidType, record[3])
	}

	cents, err := core.ParseDecimalToCents(record[2])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", record[2], err)
	}

	date, err := parseDate(record[5])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", record[5], err)
	}

	tx := core.Transaction{
		ID:          strings.TrimSpace(record[0]),
		AccountID:   accountID,
		Description: strings.TrimSpace(record[1]),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Type:        typ,
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if typ == core.Expense {
		name := strings.ToLower(strings.TrimSpace(record[4]))
		if id, ok := categoryByName[name]; ok {
			tx.CategoryID = id
		} else {
			tx.CategoryID = core.CategoryOther.ID
		}
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// parseDate accepts the RFC 3339 timestamps Export writes and the bare
// dates spreadsheets tend to produce.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
