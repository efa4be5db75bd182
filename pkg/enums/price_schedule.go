package enums

import "fmt"

// PriceScheduleType distinguishes one-time pricing from recurring pricing.
type PriceScheduleType string

const (
	PriceScheduleTypePurchaseTime PriceScheduleType = "purchase_time"
	PriceScheduleTypeRecurring    PriceScheduleType = "recurring"
)

var validPriceScheduleTypes = []PriceScheduleType{
	PriceScheduleTypePurchaseTime,
	PriceScheduleTypeRecurring,
}

// String implements fmt.Stringer.
func (t PriceScheduleType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PriceScheduleType.
func (t PriceScheduleType) IsValid() bool {
	for _, candidate := range validPriceScheduleTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePriceScheduleType converts raw input into a PriceScheduleType.
func ParsePriceScheduleType(value string) (PriceScheduleType, error) {
	for _, candidate := range validPriceScheduleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price schedule type %q", value)
}

// PaymentFrequency identifies the billing cadence of a recurring schedule.
type PaymentFrequency string

const (
	PaymentFrequencyMonthly   PaymentFrequency = "monthly"
	PaymentFrequencyQuarterly PaymentFrequency = "quarterly"
	PaymentFrequencyAnnually  PaymentFrequency = "annually"
)

var validPaymentFrequencies = []PaymentFrequency{
	PaymentFrequencyMonthly,
	PaymentFrequencyQuarterly,
	PaymentFrequencyAnnually,
}

// String implements fmt.Stringer.
func (f PaymentFrequency) String() string {
	return string(f)
}

// IsValid reports whether the value is a known PaymentFrequency.
func (f PaymentFrequency) IsValid() bool {
	for _, candidate := range validPaymentFrequencies {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParsePaymentFrequency converts raw input into a PaymentFrequency.
func ParsePaymentFrequency(value string) (PaymentFrequency, error) {
	for _, candidate := range validPaymentFrequencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment frequency %q", value)
}
