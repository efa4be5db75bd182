package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceAdjustment shifts one bundle constituent's contribution within a
// specific price list. Negative amounts discount; positive amounts are
// ignored for calculated bundles.
type PriceAdjustment struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GUID            string          `gorm:"column:guid;not null;uniqueIndex"`
	PriceListGUID   string          `gorm:"column:price_list_guid;not null;uniqueIndex:ux_price_adjustments_pl_constituent"`
	ConstituentGUID string          `gorm:"column:constituent_guid;not null;uniqueIndex:ux_price_adjustments_pl_constituent"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(19,4);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
