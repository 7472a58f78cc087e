package services

import (
	"sort"
	"strconv"
	"time"

	"finanze/internal/core"
)

// rangeDailySpan is the widest span between the earliest and latest
// transaction for which a range-mode trend still renders one bucket
// per day; anything wider falls back to monthly buckets.
const rangeDailySpan = 35 * 24 * time.Hour

// Aggregate computes the dashboard metrics for the current view.
//
// Period totals, the category breakdown and the trend series come from
// the filtered subset. The current balance is computed over every
// transaction of the selected account regardless of the filter, and is
// only reported when a single concrete account is selected: summing
// balances across accounts with different currencies is meaningless,
// so callers suppress the metric instead.
func Aggregate(
	filtered []core.Transaction,
	allTransactions []core.Transaction,
	account *core.Account,
	filter core.Filter,
	categories []core.Category,
) core.DashboardMetrics {
	m := core.DashboardMetrics{
		ByCategory: categoryBreakdown(filtered, categories),
		Trend:      trendSeries(filtered, filter),
	}

	for _, tx := range filtered {
		if tx.Type == core.Income {
			m.PeriodIncome.Cents += tx.Amount.Cents
		} else {
			m.PeriodExpenses.Cents += tx.Amount.Cents
		}
	}
	m.NetBalance.Cents = m.PeriodIncome.Cents - m.PeriodExpenses.Cents

	if account != nil {
		m.HasBalance = true
		m.Currency = account.Currency
		m.CurrentBalance.Cents = account.InitialBalance.Cents
		for _, tx := range allTransactions {
			if tx.AccountID != account.ID {
				continue
			}
			if tx.Type == core.Income {
				m.CurrentBalance.Cents += tx.Amount.Cents
			} else {
				m.CurrentBalance.Cents -= tx.Amount.Cents
			}
		}
	}

	return m
}

// categoryBreakdown groups filtered expenses by resolved category,
// first-seen order. Unresolvable references share the sentinel bucket;
// categories with no expenses produce no bucket at all.
func categoryBreakdown(filtered []core.Transaction, categories []core.Category) []core.CategoryExpense {
	var buckets []core.CategoryExpense
	index := make(map[string]int)

	for _, tx := range filtered {
		if tx.Type != core.Expense {
			continue
		}
		resolved := core.ResolveCategory(tx.CategoryID, categories)
		key := resolved.Category.ID
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, core.CategoryExpense{
				CategoryID: key,
				Name:       resolved.Category.Name,
				Fallback:   resolved.Fallback,
			})
		}
		buckets[i].Amount.Cents += tx.Amount.Cents
	}
	return buckets
}

// trendSeries builds the time-bucketed income/expense series. Bucket
// granularity follows the active filter: a specific month gets one
// fixed bucket per calendar day, a whole year gets twelve monthly
// buckets, and a date range buckets by day or by month depending on
// the span of the data actually present.
func trendSeries(filtered []core.Transaction, filter core.Filter) []core.TrendPoint {
	switch filter.Mode {
	case core.FilterMonth:
		if filter.AllMonths {
			return monthOfYearSeries(filtered, filter.Year)
		}
		return dayOfMonthSeries(filtered, filter.Year, filter.Month)
	case core.FilterRange:
		return rangeSeries(filtered, filter)
	default:
		return nil
	}
}

func dayOfMonthSeries(filtered []core.Transaction, year int, month time.Month) []core.TrendPoint {
	points := make([]core.TrendPoint, daysIn(year, month))
	for i := range points {
		points[i].Label = strconv.Itoa(i + 1)
	}
	for _, tx := range filtered {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		accumulate(&points[tx.Date.Day()-1], tx)
	}
	return points
}

func monthOfYearSeries(filtered []core.Transaction, year int) []core.TrendPoint {
	points := make([]core.TrendPoint, 12)
	for i := range points {
		points[i].Label = time.Month(i + 1).String()[:3]
	}
	for _, tx := range filtered {
		if tx.Date.Year() != year {
			continue
		}
		accumulate(&points[int(tx.Date.Month())-1], tx)
	}
	return points
}

func rangeSeries(filtered []core.Transaction, filter core.Filter) []core.TrendPoint {
	// No data, or no bounds to anchor the series: the caller renders an
	// explicit empty state rather than a zero chart.
	if len(filtered) == 0 || (filter.StartDate == nil && filter.EndDate == nil) {
		return nil
	}

	first, last := filtered[0].Date, filtered[0].Date
	for _, tx := range filtered[1:] {
		if tx.Date.Before(first) {
			first = tx.Date
		}
		if tx.Date.After(last) {
			last = tx.Date
		}
	}

	byDay := last.Sub(first) <= rangeDailySpan
	points := make(map[string]*core.TrendPoint)
	for _, tx := range filtered {
		// Keys sort chronologically; labels are what the chart shows.
		key, label := tx.Date.Format("2006-01"), tx.Date.Format("Jan 2006")
		if byDay {
			key = tx.Date.Format("2006-01-02")
			label = key
		}
		p, ok := points[key]
		if !ok {
			p = &core.TrendPoint{Label: label}
			points[key] = p
		}
		accumulate(p, tx)
	}

	keys := make([]string, 0, len(points))
	for k := range points {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]core.TrendPoint, len(keys))
	for i, k := range keys {
		out[i] = *points[k]
	}
	return out
}

func accumulate(p *core.TrendPoint, tx core.Transaction) {
	if tx.Type == core.Income {
		p.Income.Cents += tx.Amount.Cents
	} else {
		p.Expense.Cents += tx.Amount.Cents
	}
}
