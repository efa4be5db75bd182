package pricehistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	"github.com/angelmondragon/pricebook-backend/pkg/logger"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
)

type envelopeProcessor interface {
	Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error
}

// Worker pulls price events from Pub/Sub and hands them to the consumer.
// Idempotency lives inside the consumer, so redelivered messages are safe.
type Worker struct {
	subscription *gcppubsub.Subscriber
	processor    envelopeProcessor
	logg         *logger.Logger
}

// NewWorker creates a price history worker.
func NewWorker(subscription *gcppubsub.Subscriber, processor envelopeProcessor, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("price subscription is required")
	}
	if processor == nil {
		return nil, errors.New("envelope processor is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		processor:    processor,
		logg:         logg,
	}, nil
}

// Run consumes price messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg) {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// process returns true when the message should be nacked for redelivery.
func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) bool {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := w.logg.WithFields(ctx, fields)

	eventType, envelope, err := decodeMessage(msg)
	if err != nil {
		fields["error"] = err.Error()
		w.logg.Warn(w.logg.WithFields(ctx, fields), "invalid price event message")
		return false
	}

	fields["event_id"] = envelope.EventID
	fields["event_type"] = eventType
	fields["occurred_at"] = envelope.OccurredAt.Format(time.RFC3339Nano)
	logCtx = w.logg.WithFields(ctx, fields)

	if err := w.processor.Process(logCtx, eventType, envelope); err != nil {
		w.logg.Error(logCtx, "price event processing failed", err)
		return true
	}
	return false
}

func decodeMessage(msg *gcppubsub.Message) (enums.OutboxEventType, outbox.PayloadEnvelope, error) {
	var stored outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &stored); err != nil {
		return "", outbox.PayloadEnvelope{}, fmt.Errorf("decode payload envelope: %w", err)
	}

	eventType, err := enums.ParseOutboxEventType(strings.TrimSpace(msg.Attributes["event_type"]))
	if err != nil {
		return "", outbox.PayloadEnvelope{}, fmt.Errorf("event_type: %w", err)
	}

	if strings.TrimSpace(stored.EventID) == "" {
		stored.EventID = strings.TrimSpace(msg.Attributes["event_id"])
	}
	if stored.EventID == "" {
		return "", outbox.PayloadEnvelope{}, errors.New("event_id missing")
	}

	if stored.OccurredAt.IsZero() {
		if created := strings.TrimSpace(msg.Attributes["created_at"]); created != "" {
			if parsed, err := time.Parse(time.RFC3339Nano, created); err == nil {
				stored.OccurredAt = parsed
			}
		}
	}

	return eventType, stored, nil
}
