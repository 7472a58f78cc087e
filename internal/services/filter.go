package services

import (
	"strings"
	"time"

	"finanze/internal/core"
)

// FilterTransactions narrows the transaction set for the current view.
// The stages run as an ordered pipeline: account scope, date window,
// type, then free-text search over the already-narrowed set. Relative
// order of the input is preserved; callers keep transactions sorted by
// date descending at the persistence boundary.
func FilterTransactions(
	txs []core.Transaction,
	accountScope string,
	filter core.Filter,
	typeFilter core.TransactionType,
	searchQuery string,
	categories []core.Category,
) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))

	var catNames map[string]string
	query := strings.ToLower(strings.TrimSpace(searchQuery))
	if query != "" {
		catNames = make(map[string]string, len(categories))
		for _, c := range categories {
			catNames[c.ID] = strings.ToLower(c.Name)
		}
	}

	for _, tx := range txs {
		if accountScope != "" && accountScope != core.AllAccounts && tx.AccountID != accountScope {
			continue
		}
		if !inDateWindow(tx.Date, filter) {
			continue
		}
		if typeFilter != "" && typeFilter != core.TypeAll && tx.Type != typeFilter {
			continue
		}
		if query != "" && !matchesQuery(tx, query, catNames) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func inDateWindow(date time.Time, f core.Filter) bool {
	switch f.Mode {
	case core.FilterMonth:
		if date.Year() != f.Year {
			return false
		}
		return f.AllMonths || date.Month() == f.Month
	case core.FilterRange:
		if f.StartDate != nil && date.Before(*f.StartDate) {
			return false
		}
		if f.EndDate != nil && date.After(endOfDay(*f.EndDate)) {
			return false
		}
		return true
	default:
		return true
	}
}

// endOfDay extends an end bound through 23:59:59.999 of its day, so a
// range filter is inclusive of the whole end date.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// matchesQuery tests the description and, when the category reference
// resolves, the category name. An unresolvable category can never
// match, so income transactions only ever match on description.
func matchesQuery(tx core.Transaction, query string, catNames map[string]string) bool {
	if strings.Contains(strings.ToLower(tx.Description), query) {
		return true
	}
	if tx.CategoryID == "" {
		return false
	}
	name, ok := catNames[tx.CategoryID]
	return ok && strings.Contains(name, query)
}
