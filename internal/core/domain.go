package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	// TypeAll is the type-filter value meaning "no type restriction".
	TypeAll TransactionType = "all"
)

const (
	Weekly   Frequency = "weekly"
	Monthly  Frequency = "monthly"
	Annually Frequency = "annually"
)

const (
	FilterMonth FilterMode = "month"
	FilterRange FilterMode = "range"
)

// AllAccounts is the account scope meaning "every account".
const AllAccounts = "all"

type (
	TransactionType string
	Frequency       string
	FilterMode      string

	Money struct {
		Cents int64
	}

	Account struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		InitialBalance Money  `json:"initialBalance"`
		Currency       string `json:"currency"`
	}

	Category struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		AccountID   string          `json:"accountId"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		CategoryID  string          `json:"categoryId,omitempty"` // empty for income
		Date        time.Time       `json:"date"`
		Type        TransactionType `json:"type"`
	}

	RecurringTransaction struct {
		ID          string          `json:"id"`
		AccountID   string          `json:"accountId"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		CategoryID  string          `json:"categoryId,omitempty"`
		Type        TransactionType `json:"type"`
		Frequency   Frequency       `json:"frequency"`
		StartDate   time.Time       `json:"startDate"`
		NextDueDate time.Time       `json:"nextDueDate"`
	}

	// Filter is the transient view selection; it is never persisted.
	// In month mode Year is always meaningful and Month is meaningful
	// unless AllMonths is set. In range mode a nil bound is open.
	Filter struct {
		Mode      FilterMode
		Year      int
		Month     time.Month
		AllMonths bool
		StartDate *time.Time
		EndDate   *time.Time // inclusive through the end of its day
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyCurrency      = errors.New("empty currency code")
	ErrMissingAccount     = errors.New("missing account reference")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrInvalidFilter      = errors.New("invalid filter")
)

// CategoryOther is the sentinel fallback bucket used when a
// transaction's category reference is missing or no longer resolves.
var CategoryOther = Category{ID: "other", Name: "Other", Color: "#94a3b8"}

// ResolvedCategory is the result of a category lookup: either a real
// category or the sentinel, with the variant made explicit.
type ResolvedCategory struct {
	Category Category
	Fallback bool
}

// ResolveCategory looks up id among categories, falling back to the
// sentinel when the id is empty or unknown.
func ResolveCategory(id string, categories []Category) ResolvedCategory {
	if id != "" {
		for _, c := range categories {
			if c.ID == id {
				return ResolvedCategory{Category: c}
			}
		}
	}
	return ResolvedCategory{Category: CategoryOther, Fallback: true}
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (f Frequency) Validate() error {
	switch f {
	case Weekly, Monthly, Annually:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return ErrMissingAccount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return t.Type.Validate()
}

func (rt RecurringTransaction) Validate() error {
	if rt.AccountID == "" {
		return ErrMissingAccount
	}
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if rt.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if rt.StartDate.IsZero() || rt.NextDueDate.IsZero() {
		return ErrZeroDate
	}
	if err := rt.Type.Validate(); err != nil {
		return err
	}
	return rt.Frequency.Validate()
}

func (f Filter) Validate() error {
	switch f.Mode {
	case FilterMonth:
		if f.Year == 0 {
			return ErrInvalidFilter
		}
		if !f.AllMonths && (f.Month < time.January || f.Month > time.December) {
			return ErrInvalidFilter
		}
		return nil
	case FilterRange:
		if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
			return ErrInvalidFilter
		}
		return nil
	default:
		return ErrInvalidFilter
	}
}
