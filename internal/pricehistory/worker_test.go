package pricehistory

import (
	"encoding/json"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
)

func TestDecodeMessage(t *testing.T) {
	eventID := uuid.NewString()
	occurred := time.Now().UTC().Truncate(time.Millisecond)
	data, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: occurred,
		Data:       []byte(`{"price_list_guid":"pl-1"}`),
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	eventType, envelope, err := decodeMessage(&gcppubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event_type": string(enums.EventPriceUpdated)},
	})
	if err != nil {
		t.Fatalf("decodeMessage() error: %v", err)
	}
	if eventType != enums.EventPriceUpdated {
		t.Fatalf("unexpected event type %s", eventType)
	}
	if envelope.EventID != eventID {
		t.Fatalf("event id mismatch")
	}
	if !envelope.OccurredAt.Equal(occurred) {
		t.Fatalf("occurred at mismatch")
	}
}

func TestDecodeMessageFallsBackToAttributes(t *testing.T) {
	eventID := uuid.NewString()
	created := time.Now().UTC().Truncate(time.Second)
	data, err := json.Marshal(outbox.PayloadEnvelope{Version: 1})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}

	_, envelope, err := decodeMessage(&gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": string(enums.EventPriceRemoved),
			"event_id":   eventID,
			"created_at": created.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		t.Fatalf("decodeMessage() error: %v", err)
	}
	if envelope.EventID != eventID {
		t.Fatalf("event id should come from attributes")
	}
	if !envelope.OccurredAt.Equal(created) {
		t.Fatalf("occurred at should come from created_at attribute")
	}
}

func TestDecodeMessageRejectsBadInput(t *testing.T) {
	if _, _, err := decodeMessage(&gcppubsub.Message{Data: []byte("{bad")}); err == nil {
		t.Fatal("expected error for malformed envelope")
	}

	data, _ := json.Marshal(outbox.PayloadEnvelope{Version: 1, EventID: uuid.NewString()})
	if _, _, err := decodeMessage(&gcppubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event_type": "order_created"},
	}); err == nil {
		t.Fatal("expected error for unknown event type")
	}

	if _, _, err := decodeMessage(&gcppubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event_type": string(enums.EventPriceUpdated)},
	}); err != nil {
		t.Fatalf("event id in envelope should suffice: %v", err)
	}
}
