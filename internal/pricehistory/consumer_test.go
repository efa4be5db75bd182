package pricehistory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
)

func TestConsumerProcessesPriceUpdated(t *testing.T) {
	inserter := &fakeInserter{}
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			return nil
		},
	}
	consumer := mustConsumer(t, inserter, manager)

	envelope := buildEnvelope(t, uuid.New(), map[string]any{
		"base_amount_guid": uuid.NewString(),
		"price_list_guid":  "pl-1",
		"object_guid":      "SKU-1",
		"object_type":      "SKU",
		"quantity":         5,
		"list_value":       "8.00",
	})

	if err := consumer.Process(context.Background(), enums.EventPriceUpdated, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if len(inserter.rows) != 1 {
		t.Fatalf("expected 1 row inserted, got %d", len(inserter.rows))
	}
	row, ok := inserter.rows[0].(*priceHistoryRow)
	if !ok {
		t.Fatalf("expected priceHistoryRow, got %T", inserter.rows[0])
	}
	if row.EventType != string(enums.EventPriceUpdated) {
		t.Fatalf("unexpected event type: %s", row.EventType)
	}
	if row.PriceListGUID == nil || *row.PriceListGUID != "pl-1" {
		t.Fatalf("price list guid mismatch")
	}
	if row.ObjectGUID == nil || *row.ObjectGUID != "SKU-1" {
		t.Fatalf("object guid mismatch")
	}
	if row.Quantity == nil || *row.Quantity != 5 {
		t.Fatalf("quantity mismatch")
	}
	if row.ListValue == nil || *row.ListValue != "8.00" {
		t.Fatalf("list value mismatch, got %v", row.ListValue)
	}
	if row.SaleValue != nil {
		t.Fatalf("sale value should be nil when absent")
	}
	if !row.Payload.Valid {
		t.Fatalf("payload should be valid json")
	}
}

func TestConsumerIgnoresUnrelatedEvents(t *testing.T) {
	inserter := &fakeInserter{}
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			t.Fatal("idempotency should not be consulted for filtered events")
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			return nil
		},
	}
	consumer := mustConsumer(t, inserter, manager)

	envelope := buildEnvelope(t, uuid.New(), map[string]any{"price_list_guid": "pl-1"})
	if err := consumer.Process(context.Background(), enums.EventPriceListCreated, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(inserter.rows) != 0 {
		t.Fatalf("expected no rows for filtered event")
	}
}

func TestConsumerIsIdempotent(t *testing.T) {
	inserter := &fakeInserter{}
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return true, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			return nil
		},
	}
	consumer := mustConsumer(t, inserter, manager)

	envelope := buildEnvelope(t, uuid.New(), map[string]any{})
	if err := consumer.Process(context.Background(), enums.EventPriceUpdated, envelope); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(inserter.rows) != 0 {
		t.Fatalf("expected no rows inserted when idempotent")
	}
}

func TestConsumerDeletesOnInsertFailure(t *testing.T) {
	inserter := &fakeInserter{err: errors.New("bigquery down")}
	deleted := false
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	consumer := mustConsumer(t, inserter, manager)

	envelope := buildEnvelope(t, uuid.New(), map[string]any{"price_list_guid": "pl-1"})
	if err := consumer.Process(context.Background(), enums.EventPriceRemoved, envelope); err == nil {
		t.Fatalf("expected error when insert fails")
	}
	if !deleted {
		t.Fatalf("expected idempotency key deletion on failure")
	}
}

func TestConsumerDeletesOnPayloadDecodeFailure(t *testing.T) {
	inserter := &fakeInserter{}
	deleted := false
	manager := fakeIdempotency{
		check: func(_ context.Context, _ string, _ uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(_ context.Context, _ string, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	consumer := mustConsumer(t, inserter, manager)

	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       []byte("{invalid json"),
	}
	if err := consumer.Process(context.Background(), enums.EventPriceUpdated, envelope); err == nil {
		t.Fatalf("expected error for bad payload")
	}
	if !deleted {
		t.Fatalf("expected idempotency key deletion on payload error")
	}
	if len(inserter.rows) != 0 {
		t.Fatalf("expected no rows inserted on payload failure")
	}
}

func TestNumericValueFormats(t *testing.T) {
	payload := map[string]any{
		"as_string": "12.50",
		"as_number": float64(9.99),
		"empty":     "  ",
	}
	if got := numericValue(payload, "as_string"); got == nil || *got != "12.50" {
		t.Fatalf("string value mismatch: %v", got)
	}
	if got := numericValue(payload, "as_number"); got == nil || *got != "9.99" {
		t.Fatalf("number value mismatch: %v", got)
	}
	if got := numericValue(payload, "empty"); got != nil {
		t.Fatalf("blank string should produce nil")
	}
	if got := numericValue(payload, "missing"); got != nil {
		t.Fatalf("missing key should produce nil")
	}
}

type fakeInserter struct {
	rows []any
	err  error
}

func (f *fakeInserter) InsertRows(ctx context.Context, table string, rows []any) error {
	f.rows = append(f.rows, rows...)
	return f.err
}

type fakeIdempotency struct {
	check    func(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	deleteFn func(ctx context.Context, consumer string, eventID uuid.UUID) error
}

func (f fakeIdempotency) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	return f.check(ctx, consumer, eventID)
}

func (f fakeIdempotency) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	return f.deleteFn(ctx, consumer, eventID)
}

func mustConsumer(t *testing.T, inserter *fakeInserter, manager fakeIdempotency) *Consumer {
	t.Helper()
	consumer, err := NewConsumer(inserter, "price_history", manager, logger.New(logger.Options{
		ServiceName: "price-history-test",
		Level:       logger.ParseLevel("debug"),
		Output:      io.Discard,
	}))
	if err != nil {
		t.Fatalf("failed to build consumer: %v", err)
	}
	return consumer
}

func buildEnvelope(t *testing.T, eventID uuid.UUID, payload any) outbox.PayloadEnvelope {
	t.Helper()
	bytes, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID.String(),
		OccurredAt: time.Now(),
		Data:       bytes,
	}
}
