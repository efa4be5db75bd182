package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// BaseAmount is one raw price record from a price list: a list value, an
// optional sale value, and the minimum quantity they apply from.
type BaseAmount struct {
	GUID          string
	ObjectGUID    string
	ObjectType    enums.BaseAmountObjectType
	Quantity      int
	ListValue     *decimal.Decimal
	SaleValue     *decimal.Decimal
	PriceListGUID string
}

// BaseAmountDataSource fetches raw price records for a set of price lists and
// catalog objects in one round trip.
type BaseAmountDataSource interface {
	GetBaseAmounts(ctx context.Context, priceListGUIDs, objectGUIDs []string) ([]BaseAmount, error)
}

// Finder narrows an already fetched base amount collection in memory, so a
// single bulk fetch can serve every layer of a stack walk.
type Finder struct{}

// Filter returns the amounts belonging to the given price list and catalog
// object.
func (Finder) Filter(amounts []BaseAmount, priceListGUID string, objectType enums.BaseAmountObjectType, objectGUID string) []BaseAmount {
	var matched []BaseAmount
	for _, amount := range amounts {
		if amount.PriceListGUID != priceListGUID {
			continue
		}
		if amount.ObjectType != objectType || amount.ObjectGUID != objectGUID {
			continue
		}
		matched = append(matched, amount)
	}
	return matched
}
