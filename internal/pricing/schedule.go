package pricing

import (
	"sort"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// PriceSchedule identifies the billing context a tier table applies under:
// either the one-time purchase charge or a recurring charge at a given
// payment frequency. The zero PaymentFrequency is only valid for
// purchase-time schedules.
type PriceSchedule struct {
	Type             enums.PriceScheduleType
	PaymentFrequency enums.PaymentFrequency
}

func PurchaseTimeSchedule() PriceSchedule {
	return PriceSchedule{Type: enums.PriceScheduleTypePurchaseTime}
}

func RecurringSchedule(frequency enums.PaymentFrequency) PriceSchedule {
	return PriceSchedule{
		Type:             enums.PriceScheduleTypeRecurring,
		PaymentFrequency: frequency,
	}
}

func (s PriceSchedule) IsPurchaseTime() bool {
	return s.Type == enums.PriceScheduleTypePurchaseTime
}

// Scheme maps price schedules to their resolved tier tables for one entity.
type Scheme struct {
	prices map[PriceSchedule]*Price
}

func NewScheme() *Scheme {
	return &Scheme{prices: make(map[PriceSchedule]*Price)}
}

func (s *Scheme) SetPriceForSchedule(schedule PriceSchedule, price *Price) {
	if s == nil {
		return
	}
	s.prices[schedule] = price
}

func (s *Scheme) PriceForSchedule(schedule PriceSchedule) *Price {
	if s == nil {
		return nil
	}
	return s.prices[schedule]
}

func (s *Scheme) IsEmpty() bool {
	return s == nil || len(s.prices) == 0
}

// Schedules returns every schedule in the scheme, purchase-time first and
// recurring schedules ordered by frequency for deterministic iteration.
func (s *Scheme) Schedules() []PriceSchedule {
	if s == nil {
		return nil
	}
	schedules := make([]PriceSchedule, 0, len(s.prices))
	for schedule := range s.prices {
		schedules = append(schedules, schedule)
	}
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].Type != schedules[j].Type {
			return schedules[i].IsPurchaseTime()
		}
		return schedules[i].PaymentFrequency < schedules[j].PaymentFrequency
	})
	return schedules
}

// PurchaseTimeSchedules returns the subset of schedules that charge at
// purchase time.
func (s *Scheme) PurchaseTimeSchedules() []PriceSchedule {
	var matched []PriceSchedule
	for _, schedule := range s.Schedules() {
		if schedule.IsPurchaseTime() {
			matched = append(matched, schedule)
		}
	}
	return matched
}

// TierMinQuantities returns the ascending union of tier breakpoints across
// every schedule in the scheme.
func (s *Scheme) TierMinQuantities() []int {
	if s == nil {
		return nil
	}
	seen := make(map[int]struct{})
	for _, price := range s.prices {
		for _, min := range price.TierMinQuantities() {
			seen[min] = struct{}{}
		}
	}
	mins := make([]int, 0, len(seen))
	for min := range seen {
		mins = append(mins, min)
	}
	sort.Ints(mins)
	return mins
}
