package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// BundleConstituent is one entry of a bundle, pointing at a product, SKU or
// nested bundle by code. Ordering fixes the default-selection order.
type BundleConstituent struct {
	ID         uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GUID       string                    `gorm:"column:guid;not null;uniqueIndex"`
	BundleCode string                    `gorm:"column:bundle_code;not null;index"`
	Ordering   int                       `gorm:"column:ordering;not null;default:0"`
	Quantity   int                       `gorm:"column:quantity;not null;default:1"`
	ItemKind   enums.ConstituentItemKind `gorm:"column:item_kind;not null"`
	ItemCode   string                    `gorm:"column:item_code;not null"`
	CreatedAt  time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
