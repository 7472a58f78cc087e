package http

import (
	"context"
	"time"

	"finanze/internal/core"
)

// Narrow read/write ports the handlers depend on. *storage.SQLiteRepository
// satisfies all of them.

type AccountStore interface {
	CreateAccount(ctx context.Context, a core.Account) error
	UpdateAccount(ctx context.Context, a core.Account) error
	DeleteAccount(ctx context.Context, id string) error
	GetAccount(ctx context.Context, id string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c core.Category) error
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]core.Category, error)
}

type TransactionReader interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

type RecurringStore interface {
	CreateRecurringTransaction(ctx context.Context, def core.RecurringTransaction) error
	UpdateRecurringTransaction(ctx context.Context, def core.RecurringTransaction) error
	DeleteRecurringTransaction(ctx context.Context, id string) error
	ListRecurringTransactions(ctx context.Context) ([]core.RecurringTransaction, error)
	UpdateRecurringNextDue(ctx context.Context, id string, nextDue time.Time) error
}

// Store is everything the server reads and writes directly.
type Store interface {
	AccountStore
	CategoryStore
	TransactionReader
	RecurringStore
}

// TransactionWriter routes transaction mutations through the service so
// sync messages get published. *services.TransactionService satisfies it.
type TransactionWriter interface {
	Create(ctx context.Context, tx core.Transaction) error
	Update(ctx context.Context, tx core.Transaction) error
	Delete(ctx context.Context, id string) error
}
