package core

// CategoryExpense is an expense total aggregated under one category
// bucket. Fallback marks the sentinel bucket for unresolved categories.
type CategoryExpense struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Fallback   bool   `json:"fallback,omitempty"`
	Amount     Money  `json:"amount"`
}

// TrendPoint is a single time bucket in the income/expense series.
type TrendPoint struct {
	Label   string `json:"label"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
}

// DashboardMetrics is the aggregate view over a filtered transaction
// set. CurrentBalance is only meaningful when HasBalance is set, i.e.
// when a single concrete account is selected.
type DashboardMetrics struct {
	HasBalance     bool              `json:"hasBalance"`
	CurrentBalance Money             `json:"currentBalance"`
	Currency       string            `json:"currency,omitempty"`
	PeriodIncome   Money             `json:"periodIncome"`
	PeriodExpenses Money             `json:"periodExpenses"`
	NetBalance     Money             `json:"netBalance"`
	ByCategory     []CategoryExpense `json:"byCategory"`
	Trend          []TrendPoint      `json:"trend"`
}
