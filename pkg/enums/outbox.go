package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateBaseAmount      OutboxAggregateType = "base_amount"
	AggregatePriceList       OutboxAggregateType = "price_list"
	AggregatePriceAdjustment OutboxAggregateType = "price_adjustment"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateBaseAmount,
	AggregatePriceList,
	AggregatePriceAdjustment,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventPriceUpdated        OutboxEventType = "price_updated"
	EventPriceRemoved        OutboxEventType = "price_removed"
	EventPriceListCreated    OutboxEventType = "price_list_created"
	EventPriceListDeleted    OutboxEventType = "price_list_deleted"
	EventPriceListAssigned   OutboxEventType = "price_list_assigned"
	EventPriceListUnassigned OutboxEventType = "price_list_unassigned"
	EventAdjustmentChanged   OutboxEventType = "price_adjustment_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventPriceUpdated,
	EventPriceRemoved,
	EventPriceListCreated,
	EventPriceListDeleted,
	EventPriceListAssigned,
	EventPriceListUnassigned,
	EventAdjustmentChanged,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
