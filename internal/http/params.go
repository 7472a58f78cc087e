package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finanze/internal/core"
)

// FilterParams is the decoded query string of list and dashboard
// requests.
type FilterParams struct {
	AccountScope string
	Filter       core.Filter
	Type         core.TransactionType
	Query        string
}

// ParseFilterParams decodes the shared filter query parameters.
// Missing or unparsable numeric values fall back to the current
// year/month; malformed explicit dates are an error rather than a
// silently ignored filter.
func ParseFilterParams(r *http.Request) (FilterParams, error) {
	q := r.URL.Query()
	now := time.Now()

	p := FilterParams{
		AccountScope: core.AllAccounts,
		Filter: core.Filter{
			Mode:  core.FilterMonth,
			Year:  now.Year(),
			Month: now.Month(),
		},
		Type:  core.TypeAll,
		Query: strings.TrimSpace(q.Get("q")),
	}

	if v := strings.TrimSpace(q.Get("account")); v != "" {
		p.AccountScope = v
	}

	switch strings.TrimSpace(q.Get("mode")) {
	case "", string(core.FilterMonth):
	case string(core.FilterRange):
		p.Filter.Mode = core.FilterRange
	default:
		return FilterParams{}, fmt.Errorf("%w: unknown mode %q", core.ErrInvalidFilter, q.Get("mode"))
	}

	if v := strings.TrimSpace(q.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			p.Filter.Year = y
		}
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		if v == "all" {
			p.Filter.AllMonths = true
		} else if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			p.Filter.Month = time.Month(m)
		}
	}

	if p.Filter.Mode == core.FilterRange {
		start, err := parseDateParam(q.Get("start"))
		if err != nil {
			return FilterParams{}, err
		}
		end, err := parseDateParam(q.Get("end"))
		if err != nil {
			return FilterParams{}, err
		}
		p.Filter.StartDate = start
		p.Filter.EndDate = end
	}

	switch t := core.TransactionType(strings.TrimSpace(q.Get("type"))); t {
	case "", core.TypeAll:
	case core.Income, core.Expense:
		p.Type = t
	default:
		return FilterParams{}, fmt.Errorf("%w: %q", core.ErrInvalidType, q.Get("type"))
	}

	return p, nil
}

func parseDateParam(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date %q", core.ErrInvalidFilter, v)
	}
	return &t, nil
}
