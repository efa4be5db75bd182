package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// BaseAmount is one raw price record: the list (and optional sale) value for
// a catalog object at a minimum quantity within one price list. A price list
// may hold at most one record per object and quantity.
type BaseAmount struct {
	ID            uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GUID          string                     `gorm:"column:guid;not null;uniqueIndex"`
	ObjectGUID    string                     `gorm:"column:object_guid;not null;uniqueIndex:ux_base_amounts_pl_object_qty"`
	ObjectType    enums.BaseAmountObjectType `gorm:"column:object_type;not null;uniqueIndex:ux_base_amounts_pl_object_qty"`
	Quantity      int                        `gorm:"column:quantity;not null;uniqueIndex:ux_base_amounts_pl_object_qty"`
	ListValue     decimal.Decimal            `gorm:"column:list_value;type:numeric(19,4);not null"`
	SaleValue     *decimal.Decimal           `gorm:"column:sale_value;type:numeric(19,4)"`
	PriceListGUID string                     `gorm:"column:price_list_guid;not null;index;uniqueIndex:ux_base_amounts_pl_object_qty"`
	CreatedAt     time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
