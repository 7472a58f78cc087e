package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finanze/internal/amqp"
	"finanze/internal/core"
)

type fakeStore struct {
	transactions map[string]core.Transaction
	recurring    []core.RecurringTransaction
	nextDue      map[string]time.Time
	createErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[string]core.Transaction),
		nextDue:      make(map[string]time.Time),
	}
}

func (f *fakeStore) CreateTransaction(_ context.Context, tx core.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.transactions[tx.ID] = tx
	return nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	if _, ok := f.transactions[tx.ID]; !ok {
		return errors.New("not found")
	}
	f.transactions[tx.ID] = tx
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id string) error {
	delete(f.transactions, id)
	return nil
}

func (f *fakeStore) ListRecurringTransactions(_ context.Context) ([]core.RecurringTransaction, error) {
	return f.recurring, nil
}

func (f *fakeStore) UpdateRecurringNextDue(_ context.Context, id string, nextDue time.Time) error {
	f.nextDue[id] = nextDue
	return nil
}

type fakePublisher struct {
	published []amqp.TransactionSyncMessage
	err       error
}

func (f *fakePublisher) PublishTransactionSync(_ context.Context, id, op string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, amqp.TransactionSyncMessage{ID: id, Op: op})
	return nil
}

func validTransaction(id string) core.Transaction {
	return tx(id, "a1", core.Expense, "Coffee", "food", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestTransactionServiceCreatePublishes(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	if err := svc.Create(context.Background(), validTransaction("t1")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, ok := store.transactions["t1"]; !ok {
		t.Error("transaction not persisted")
	}
	if len(pub.published) != 1 || pub.published[0].Op != amqp.OpCreate {
		t.Errorf("published = %+v, want one create message", pub.published)
	}
}

func TestTransactionServiceCreateRejectsInvalid(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, &fakePublisher{})

	bad := validTransaction("t1")
	bad.Description = ""
	if err := svc.Create(context.Background(), bad); !errors.Is(err, core.ErrEmptyDescription) {
		t.Fatalf("Create() error = %v, want ErrEmptyDescription", err)
	}
	if len(store.transactions) != 0 {
		t.Error("invalid transaction reached the store")
	}
}

func TestTransactionServicePublishFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store, pub)

	if err := svc.Create(context.Background(), validTransaction("t1")); err != nil {
		t.Fatalf("Create() error: %v, want nil despite publish failure", err)
	}
	if _, ok := store.transactions["t1"]; !ok {
		t.Error("transaction not persisted")
	}
}

func TestTransactionServiceNilPublisher(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, nil)

	if err := svc.Create(context.Background(), validTransaction("t1")); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := svc.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
}

func TestRecurringProcessorProcessDue(t *testing.T) {
	store := newFakeStore()
	store.recurring = []core.RecurringTransaction{monthlyDef(
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	)}
	pub := &fakePublisher{}
	proc := NewRecurringProcessor(store, pub)

	now := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	created, err := proc.ProcessDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ProcessDue() error: %v", err)
	}

	if created != 3 {
		t.Errorf("created = %d, want 3", created)
	}
	if len(store.transactions) != 3 {
		t.Errorf("persisted = %d transactions, want 3", len(store.transactions))
	}
	wantNext := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	if got := store.nextDue["r1"]; !got.Equal(wantNext) {
		t.Errorf("next due = %v, want %v", got, wantNext)
	}
	if len(pub.published) != 3 {
		t.Fatalf("published = %d messages, want 3", len(pub.published))
	}
	for _, msg := range pub.published {
		if msg.Op != amqp.OpMaterialize {
			t.Errorf("published op = %q, want %q", msg.Op, amqp.OpMaterialize)
		}
	}
}

func TestRecurringProcessorInvalidFrequencyIsFatal(t *testing.T) {
	store := newFakeStore()
	def := monthlyDef(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	def.Frequency = "fortnightly"
	store.recurring = []core.RecurringTransaction{def}
	proc := NewRecurringProcessor(store, nil)

	_, err := proc.ProcessDue(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, core.ErrInvalidFrequency) {
		t.Fatalf("ProcessDue() error = %v, want ErrInvalidFrequency", err)
	}
	if len(store.transactions) != 0 {
		t.Error("transactions persisted despite fatal validation error")
	}
}

func TestRecurringProcessorPersistFailureSkipsRow(t *testing.T) {
	store := newFakeStore()
	store.recurring = []core.RecurringTransaction{monthlyDef(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	)}
	store.createErr = errors.New("disk full")
	proc := NewRecurringProcessor(store, nil)

	created, err := proc.ProcessDue(context.Background(), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ProcessDue() error: %v", err)
	}
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}
}
