package pricing

import "github.com/angelmondragon/pricebook-backend/pkg/enums"

// PriceListStack is the ordered sequence of price lists consulted when
// resolving a price. GUIDs are held in ascending priority: the last entry is
// consulted first.
type PriceListStack struct {
	guids    []string
	currency enums.Currency
}

func NewPriceListStack(currency enums.Currency, guids ...string) *PriceListStack {
	copied := make([]string, len(guids))
	copy(copied, guids)
	return &PriceListStack{guids: copied, currency: currency}
}

func (s *PriceListStack) Currency() enums.Currency {
	if s == nil {
		return ""
	}
	return s.currency
}

// GUIDs returns the stack's price list GUIDs in ascending priority.
func (s *PriceListStack) GUIDs() []string {
	if s == nil {
		return nil
	}
	copied := make([]string, len(s.guids))
	copy(copied, s.guids)
	return copied
}

// DescendingPriority returns the GUIDs in lookup order, highest priority
// first.
func (s *PriceListStack) DescendingPriority() []string {
	if s == nil {
		return nil
	}
	reversed := make([]string, len(s.guids))
	for i, guid := range s.guids {
		reversed[len(s.guids)-1-i] = guid
	}
	return reversed
}
