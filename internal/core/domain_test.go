package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:          "t1",
		AccountID:   "a1",
		Description: "Groceries",
		Amount:      Money{Cents: 1250},
		CategoryID:  "food",
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Type:        Expense,
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid expense", func(*Transaction) {}, nil},
		{"valid income without category", func(tx *Transaction) { tx.Type = Income; tx.CategoryID = "" }, nil},
		{"missing account", func(tx *Transaction) { tx.AccountID = "" }, ErrMissingAccount},
		{"empty description", func(tx *Transaction) { tx.Description = "   " }, ErrEmptyDescription},
		{"description too long", func(tx *Transaction) { tx.Description = strings.Repeat("x", 201) }, ErrDescriptionTooLong},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrZeroDate},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	valid := RecurringTransaction{
		ID:          "r1",
		AccountID:   "a1",
		Description: "Rent",
		Amount:      Money{Cents: 90000},
		Type:        Expense,
		CategoryID:  "home",
		Frequency:   Monthly,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NextDueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}

	bad := valid
	bad.Frequency = "biweekly"
	if !errors.Is(bad.Validate(), ErrInvalidFrequency) {
		t.Errorf("expected ErrInvalidFrequency, got %v", bad.Validate())
	}

	bad = valid
	bad.NextDueDate = time.Time{}
	if !errors.Is(bad.Validate(), ErrZeroDate) {
		t.Errorf("expected ErrZeroDate, got %v", bad.Validate())
	}
}

func TestAccountValidate(t *testing.T) {
	valid := Account{ID: "a1", Name: "Checking", Currency: "EUR"}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}

	bad := valid
	bad.Name = "  "
	if !errors.Is(bad.Validate(), ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", bad.Validate())
	}

	bad = valid
	bad.Currency = ""
	if !errors.Is(bad.Validate(), ErrEmptyCurrency) {
		t.Errorf("expected ErrEmptyCurrency, got %v", bad.Validate())
	}
}

func TestResolveCategory(t *testing.T) {
	cats := []Category{
		{ID: "food", Name: "Food", Color: "#f00"},
		{ID: "home", Name: "Home", Color: "#0f0"},
	}

	tests := []struct {
		name         string
		id           string
		wantName     string
		wantFallback bool
	}{
		{"known id", "food", "Food", false},
		{"unknown id", "deleted", "Other", true},
		{"empty id", "", "Other", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCategory(tt.id, cats)
			if got.Category.Name != tt.wantName || got.Fallback != tt.wantFallback {
				t.Errorf("ResolveCategory(%q) = {%s %v}, want {%s %v}",
					tt.id, got.Category.Name, got.Fallback, tt.wantName, tt.wantFallback)
			}
		})
	}
}

func TestFilterValidate(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"month mode specific month", Filter{Mode: FilterMonth, Year: 2024, Month: time.March}, false},
		{"month mode all months", Filter{Mode: FilterMonth, Year: 2024, AllMonths: true}, false},
		{"month mode missing year", Filter{Mode: FilterMonth, Month: time.March}, true},
		{"month mode month out of range", Filter{Mode: FilterMonth, Year: 2024, Month: 13}, true},
		{"range mode open bounds", Filter{Mode: FilterRange}, false},
		{"range mode inverted bounds", Filter{Mode: FilterRange, StartDate: &start, EndDate: &end}, true},
		{"unknown mode", Filter{Mode: "quarter", Year: 2024}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
