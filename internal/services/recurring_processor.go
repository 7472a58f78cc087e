package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finanze/internal/amqp"
	"finanze/internal/core"
)

// RecurringStore is the slice of the repository the processor needs.
type RecurringStore interface {
	ListRecurringTransactions(ctx context.Context) ([]core.RecurringTransaction, error)
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	UpdateRecurringNextDue(ctx context.Context, id string, nextDue time.Time) error
}

// RecurringProcessor runs the catch-up pass: materialize everything
// the recurring definitions owe up to now, persist the results and
// notify downstream consumers.
type RecurringProcessor struct {
	store     RecurringStore
	publisher EventPublisher
}

func NewRecurringProcessor(store RecurringStore, publisher EventPublisher) *RecurringProcessor {
	return &RecurringProcessor{
		store:     store,
		publisher: publisher,
	}
}

// ProcessDue materializes all due occurrences and returns how many
// transactions were created. Persistence failures for one definition
// are logged and skipped so a single bad row cannot stall the rest; a
// malformed definition (unknown frequency) fails the whole pass.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	defs, err := p.store.ListRecurringTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring transactions: %w", err)
	}

	res, err := Advance(defs, now)
	if err != nil {
		return 0, fmt.Errorf("advance recurring transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"definitions", len(defs),
		"due", len(res.Materialized),
		"processing_date", now.Format("2006-01-02"))

	created := 0
	for _, tx := range res.Materialized {
		if err := p.store.CreateTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to persist materialized transaction",
				"id", tx.ID,
				"description", tx.Description,
				"error", err)
			continue
		}
		created++
		if p.publisher != nil {
			if err := p.publisher.PublishTransactionSync(ctx, tx.ID, amqp.OpMaterialize); err != nil {
				slog.ErrorContext(ctx, "Failed to publish materialize message",
					"id", tx.ID, "error", err)
			}
		}
	}

	for _, def := range res.UpdatedDefs {
		if err := p.store.UpdateRecurringNextDue(ctx, def.ID, def.NextDueDate); err != nil {
			slog.ErrorContext(ctx, "Failed to update next due date",
				"recurring_id", def.ID,
				"error", err)
		}
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"created", created,
		"definitions", len(defs))

	return created, nil
}
