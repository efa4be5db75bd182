package payloads

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// PriceUpdatedEvent signals that a base amount was created or changed, so
// search indexes and caches can re-resolve the affected object.
type PriceUpdatedEvent struct {
	BaseAmountGUID string                     `json:"base_amount_guid"`
	PriceListGUID  string                     `json:"price_list_guid"`
	ObjectGUID     string                     `json:"object_guid"`
	ObjectType     enums.BaseAmountObjectType `json:"object_type"`
	Quantity       int                        `json:"quantity"`
	ListValue      decimal.Decimal            `json:"list_value"`
	SaleValue      *decimal.Decimal           `json:"sale_value,omitempty"`
}

// PriceRemovedEvent signals that a base amount was deleted.
type PriceRemovedEvent struct {
	BaseAmountGUID string                     `json:"base_amount_guid"`
	PriceListGUID  string                     `json:"price_list_guid"`
	ObjectGUID     string                     `json:"object_guid"`
	ObjectType     enums.BaseAmountObjectType `json:"object_type"`
	Quantity       int                        `json:"quantity"`
}

// PriceListCreatedEvent announces a new price list.
type PriceListCreatedEvent struct {
	PriceListGUID string         `json:"price_list_guid"`
	Name          string         `json:"name"`
	Currency      enums.Currency `json:"currency"`
}

// PriceListDeletedEvent announces a removed price list and the moment its
// base amounts stopped applying.
type PriceListDeletedEvent struct {
	PriceListGUID string    `json:"price_list_guid"`
	DeletedAt     time.Time `json:"deleted_at"`
}

// PriceListAssignedEvent reports a price list joining a catalog's stack.
type PriceListAssignedEvent struct {
	AssignmentGUID string   `json:"assignment_guid"`
	PriceListGUID  string   `json:"price_list_guid"`
	CatalogGUID    string   `json:"catalog_guid"`
	Priority       int      `json:"priority"`
	Stores         []string `json:"stores,omitempty"`
}

// PriceListUnassignedEvent reports a price list leaving a catalog's stack.
type PriceListUnassignedEvent struct {
	AssignmentGUID string `json:"assignment_guid"`
	PriceListGUID  string `json:"price_list_guid"`
	CatalogGUID    string `json:"catalog_guid"`
}

// PriceAdjustmentChangedEvent reports a constituent adjustment being set,
// changed or cleared within a price list.
type PriceAdjustmentChangedEvent struct {
	AdjustmentGUID  string           `json:"adjustment_guid"`
	PriceListGUID   string           `json:"price_list_guid"`
	ConstituentGUID string           `json:"constituent_guid"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Removed         bool             `json:"removed"`
}
