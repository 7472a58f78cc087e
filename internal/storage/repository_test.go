package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finanze/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finanze.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedAccount(t *testing.T, repo *SQLiteRepository, id string) {
	t.Helper()
	err := repo.CreateAccount(context.Background(), core.Account{
		ID: id, Name: "Checking " + id, Currency: "EUR",
		InitialBalance: core.Money{Cents: 10000},
	})
	if err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}
}

func TestAccountCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedAccount(t, repo, "a1")

	got, err := repo.GetAccount(ctx, "a1")
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if got.Name != "Checking a1" || got.InitialBalance.Cents != 10000 {
		t.Errorf("GetAccount() = %+v", got)
	}

	got.Name = "Renamed"
	if err := repo.UpdateAccount(ctx, got); err != nil {
		t.Fatalf("UpdateAccount() error: %v", err)
	}
	accounts, err := repo.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Renamed" {
		t.Errorf("ListAccounts() = %+v", accounts)
	}

	if err := repo.DeleteAccount(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAccount() error: %v", err)
	}
	if _, err := repo.GetAccount(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAccount() after delete = %v, want ErrNotFound", err)
	}
}

func TestUpdateMissingRowsReturnNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpdateAccount(ctx, core.Account{ID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateAccount() = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTransaction() = %v, want ErrNotFound", err)
	}
	if err := repo.UpdateRecurringNextDue(ctx, "ghost", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRecurringNextDue() = %v, want ErrNotFound", err)
	}
}

func TestTransactionsOrderedNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "a1")

	dates := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		err := repo.CreateTransaction(ctx, core.Transaction{
			ID: string(rune('a' + i)), AccountID: "a1", Description: "tx",
			Amount: core.Money{Cents: 100}, Date: d, Type: core.Expense,
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error: %v", err)
		}
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("ListTransactions() = %d rows, want 3", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i].Date.After(txs[i-1].Date) {
			t.Errorf("transactions not ordered newest first: %v after %v", txs[i].Date, txs[i-1].Date)
		}
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "a1")

	if err := repo.CreateCategory(ctx, core.Category{ID: "food", Name: "Groceries", Color: "#f00"}); err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}

	want := core.Transaction{
		ID: "t1", AccountID: "a1", Description: "Supermarket",
		Amount: core.Money{Cents: 4250}, CategoryID: "food",
		Date: time.Date(2024, 3, 28, 10, 30, 0, 0, time.UTC), Type: core.Expense,
	}
	if err := repo.CreateTransaction(ctx, want); err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("ListTransactions() = %d rows, want 1", len(txs))
	}
	got := txs[0]
	if got.ID != want.ID || got.AccountID != want.AccountID ||
		got.Description != want.Description || got.Amount != want.Amount ||
		got.CategoryID != want.CategoryID || !got.Date.Equal(want.Date) ||
		got.Type != want.Type {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "a1")
	seedAccount(t, repo, "a2")

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct{ id, account string }{
		{"t1", "a1"}, {"t2", "a2"},
	} {
		err := repo.CreateTransaction(ctx, core.Transaction{
			ID: tc.id, AccountID: tc.account, Description: "tx",
			Amount: core.Money{Cents: 100}, Date: now, Type: core.Expense,
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error: %v", err)
		}
	}
	err := repo.CreateRecurringTransaction(ctx, core.RecurringTransaction{
		ID: "r1", AccountID: "a1", Description: "Rent",
		Amount: core.Money{Cents: 90000}, Type: core.Expense,
		Frequency: core.Monthly, StartDate: now, NextDueDate: now,
	})
	if err != nil {
		t.Fatalf("CreateRecurringTransaction() error: %v", err)
	}

	if err := repo.DeleteAccount(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAccount() error: %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != "t2" {
		t.Errorf("surviving transactions = %+v, want only t2", txs)
	}
	defs, err := repo.ListRecurringTransactions(ctx)
	if err != nil {
		t.Fatalf("ListRecurringTransactions() error: %v", err)
	}
	if len(defs) != 0 {
		t.Errorf("surviving recurring definitions = %+v, want none", defs)
	}
}

func TestDeleteCategoryClearsReference(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "a1")

	if err := repo.CreateCategory(ctx, core.Category{ID: "food", Name: "Groceries", Color: "#f00"}); err != nil {
		t.Fatalf("CreateCategory() error: %v", err)
	}
	err := repo.CreateTransaction(ctx, core.Transaction{
		ID: "t1", AccountID: "a1", Description: "Shop",
		Amount: core.Money{Cents: 100}, CategoryID: "food",
		Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Type: core.Expense,
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	if err := repo.DeleteCategory(ctx, "food"); err != nil {
		t.Fatalf("DeleteCategory() error: %v", err)
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 1 || txs[0].CategoryID != "" {
		t.Errorf("transaction after category delete = %+v, want cleared reference", txs)
	}
}

func TestRecurringRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "a1")

	want := core.RecurringTransaction{
		ID: "r1", AccountID: "a1", Description: "Rent",
		Amount: core.Money{Cents: 90000}, Type: core.Expense,
		Frequency:   core.Monthly,
		StartDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		NextDueDate: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateRecurringTransaction(ctx, want); err != nil {
		t.Fatalf("CreateRecurringTransaction() error: %v", err)
	}

	defs, err := repo.ListRecurringTransactions(ctx)
	if err != nil {
		t.Fatalf("ListRecurringTransactions() error: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("ListRecurringTransactions() = %d rows, want 1", len(defs))
	}
	got := defs[0]
	if got.Frequency != want.Frequency || !got.StartDate.Equal(want.StartDate) ||
		!got.NextDueDate.Equal(want.NextDueDate) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}

	next := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	if err := repo.UpdateRecurringNextDue(ctx, "r1", next); err != nil {
		t.Fatalf("UpdateRecurringNextDue() error: %v", err)
	}
	defs, _ = repo.ListRecurringTransactions(ctx)
	if !defs[0].NextDueDate.Equal(next) {
		t.Errorf("NextDueDate = %v, want %v", defs[0].NextDueDate, next)
	}

	if err := repo.DeleteRecurringTransaction(ctx, "r1"); err != nil {
		t.Fatalf("DeleteRecurringTransaction() error: %v", err)
	}
}

func TestSeedOtherCategory(t *testing.T) {
	repo := newTestRepo(t)

	categories, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories() error: %v", err)
	}
	for _, c := range categories {
		if c.ID == core.CategoryOther.ID {
			return
		}
	}
	t.Errorf("catch-all category missing from seeded database: %+v", categories)
}
