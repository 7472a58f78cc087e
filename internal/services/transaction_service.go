package services

import (
	"context"
	"fmt"
	"log/slog"

	"finanze/internal/amqp"
	"finanze/internal/core"
)

// TransactionStore is the slice of the repository the transaction
// service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) error
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

// EventPublisher notifies downstream consumers of transaction changes.
// *amqp.Client satisfies it.
type EventPublisher interface {
	PublishTransactionSync(ctx context.Context, id, op string) error
}

// TransactionService orchestrates transaction writes across SQLite and
// AMQP. The store is authoritative: a write succeeds or fails with the
// store, and the sync message is published best-effort afterwards.
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
}

func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	s.publish(ctx, tx.ID, amqp.OpCreate)
	return nil
}

func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, tx.ID, amqp.OpUpdate)
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, id, amqp.OpDelete)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, op); err != nil {
		// Don't fail the request, the write already landed in the store.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "op", op, "error", err)
	}
}
