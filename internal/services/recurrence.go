// Package services holds the business logic of the tracker: the pure
// recurrence, filter and aggregation engines plus the orchestration
// services that connect them to storage and messaging.
package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finanze/internal/core"
)

// AdvanceResult is the outcome of one catch-up pass. Callers persist
// both slices; Advance itself performs no I/O.
type AdvanceResult struct {
	Materialized []core.Transaction
	UpdatedDefs  []core.RecurringTransaction
}

// Advance materializes every transaction owed by the given recurring
// definitions up to and including referenceInstant, stepping each
// definition's next due date one period at a time until it lies in the
// future. A definition overdue by n periods yields n transactions in
// chronological order. Calling Advance again with the same instant
// yields no further transactions.
//
// An unrecognized frequency is a precondition violation: the whole
// pass fails and nothing should be persisted.
func Advance(defs []core.RecurringTransaction, referenceInstant time.Time) (AdvanceResult, error) {
	res := AdvanceResult{UpdatedDefs: make([]core.RecurringTransaction, 0, len(defs))}
	for _, def := range defs {
		if err := def.Frequency.Validate(); err != nil {
			return AdvanceResult{}, fmt.Errorf("recurring transaction %s: %w", def.ID, err)
		}
		for !def.NextDueDate.After(referenceInstant) {
			res.Materialized = append(res.Materialized, core.Transaction{
				ID:          uuid.NewString(),
				AccountID:   def.AccountID,
				Description: def.Description,
				Amount:      def.Amount,
				CategoryID:  def.CategoryID,
				Date:        def.NextDueDate,
				Type:        def.Type,
			})
			def.NextDueDate = nextOccurrence(def.NextDueDate, def)
		}
		res.UpdatedDefs = append(res.UpdatedDefs, def)
	}
	return res, nil
}

// nextOccurrence steps a due date forward by one period. Monthly and
// annual steps keep the day of month of the definition's start date,
// clamped to the last valid day when the target month is shorter: a
// definition anchored on Jan 31 fires on Feb 28 (29 in leap years) and
// again on Mar 31.
func nextOccurrence(due time.Time, def core.RecurringTransaction) time.Time {
	anchorDay := def.StartDate.Day()
	if anchorDay == 0 {
		anchorDay = due.Day()
	}
	switch def.Frequency {
	case core.Weekly:
		return due.AddDate(0, 0, 7)
	case core.Monthly:
		return clampedDate(due.Year(), due.Month()+1, anchorDay, due)
	case core.Annually:
		return clampedDate(due.Year()+1, due.Month(), anchorDay, due)
	default:
		// Frequency is validated before stepping; reaching this is a bug.
		panic("unknown frequency: " + string(def.Frequency))
	}
}

// clampedDate builds a date in the (normalized) year/month, clamping
// day to the month's length and keeping the clock fields of ref.
func clampedDate(year int, month time.Month, day int, ref time.Time) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
