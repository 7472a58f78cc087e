// Package storage persists accounts, categories, transactions and
// recurring definitions in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finanze/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when the referenced row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The pragma rides in the DSN so every pooled connection enforces
	// foreign keys, not just the one that ran a PRAGMA statement.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Accounts

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, currency, initial_balance_cents) VALUES (?, ?, ?, ?)`,
		a.ID, a.Name, a.Currency, a.InitialBalance.Cents)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, currency = ?, initial_balance_cents = ? WHERE id = ?`,
		a.Name, a.Currency, a.InitialBalance.Cents, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return checkAffected(res, "account", a.ID)
}

// DeleteAccount removes the account and, through foreign keys, every
// transaction and recurring definition that belongs to it.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return checkAffected(res, "account", id)
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, currency, initial_balance_cents FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Currency, &a.InitialBalance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, currency, initial_balance_cents FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.InitialBalance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, color) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Color)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ?`,
		c.Name, c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return checkAffected(res, "category", c.ID)
}

// DeleteCategory removes the category; transactions that referenced it
// keep existing with a dangling reference resolved to the catch-all
// bucket at read time.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return checkAffected(res, "category", id)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, description, amount_cents, category_id, date, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.AccountID, tx.Description, tx.Amount.Cents,
		nullable(tx.CategoryID), formatTime(tx.Date), string(tx.Type))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET account_id = ?, description = ?, amount_cents = ?, category_id = ?, date = ?, type = ?
		 WHERE id = ?`,
		tx.AccountID, tx.Description, tx.Amount.Cents,
		nullable(tx.CategoryID), formatTime(tx.Date), string(tx.Type), tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return checkAffected(res, "transaction", tx.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return checkAffected(res, "transaction", id)
}

// ListTransactions returns every transaction, newest first. The
// in-memory filter engine narrows this set per request; the table is a
// single household's ledger, not a warehouse.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, description, amount_cents, category_id, date, type
		 FROM transactions ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		tx       core.Transaction
		category sql.NullString
		date     string
		typ      string
	)
	if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Description, &tx.Amount.Cents,
		&category, &date, &typ); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	tx.CategoryID = category.String
	tx.Type = core.TransactionType(typ)

	parsed, err := parseTime(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	tx.Date = parsed
	return tx, nil
}

// Recurring transactions

func (r *SQLiteRepository) CreateRecurringTransaction(ctx context.Context, def core.RecurringTransaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions
		 (id, account_id, description, amount_cents, category_id, type, frequency, start_date, next_due_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.ID, def.AccountID, def.Description, def.Amount.Cents,
		nullable(def.CategoryID), string(def.Type), string(def.Frequency),
		formatTime(def.StartDate), formatTime(def.NextDueDate))
	if err != nil {
		return fmt.Errorf("create recurring transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateRecurringTransaction(ctx context.Context, def core.RecurringTransaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions
		 SET account_id = ?, description = ?, amount_cents = ?, category_id = ?,
		     type = ?, frequency = ?, start_date = ?, next_due_date = ?
		 WHERE id = ?`,
		def.AccountID, def.Description, def.Amount.Cents, nullable(def.CategoryID),
		string(def.Type), string(def.Frequency),
		formatTime(def.StartDate), formatTime(def.NextDueDate), def.ID)
	if err != nil {
		return fmt.Errorf("update recurring transaction: %w", err)
	}
	return checkAffected(res, "recurring transaction", def.ID)
}

func (r *SQLiteRepository) DeleteRecurringTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring transaction: %w", err)
	}
	return checkAffected(res, "recurring transaction", id)
}

func (r *SQLiteRepository) ListRecurringTransactions(ctx context.Context) ([]core.RecurringTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, description, amount_cents, category_id, type, frequency, start_date, next_due_date
		 FROM recurring_transactions ORDER BY next_due_date`)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}
	defer rows.Close()

	var defs []core.RecurringTransaction
	for rows.Next() {
		var (
			def       core.RecurringTransaction
			category  sql.NullString
			typ       string
			frequency string
			startDate string
			nextDue   string
		)
		if err := rows.Scan(&def.ID, &def.AccountID, &def.Description, &def.Amount.Cents,
			&category, &typ, &frequency, &startDate, &nextDue); err != nil {
			return nil, fmt.Errorf("scan recurring transaction: %w", err)
		}
		def.CategoryID = category.String
		def.Type = core.TransactionType(typ)
		def.Frequency = core.Frequency(frequency)

		if def.StartDate, err = parseTime(startDate); err != nil {
			return nil, fmt.Errorf("recurring transaction %s: %w", def.ID, err)
		}
		if def.NextDueDate, err = parseTime(nextDue); err != nil {
			return nil, fmt.Errorf("recurring transaction %s: %w", def.ID, err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// UpdateRecurringNextDue advances only the scheduling cursor, leaving
// the definition itself untouched.
func (r *SQLiteRepository) UpdateRecurringNextDue(ctx context.Context, id string, nextDue time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_transactions SET next_due_date = ? WHERE id = ?`,
		formatTime(nextDue), id)
	if err != nil {
		return fmt.Errorf("update next due date: %w", err)
	}
	return checkAffected(res, "recurring transaction", id)
}

// Helpers

func checkAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Timestamps are stored as RFC 3339 text in UTC so they compare and
// sort correctly as strings.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
