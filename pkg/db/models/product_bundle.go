package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// ProductBundle groups constituents under a selection rule. Calculated
// bundles derive their price from constituents; assigned bundles carry their
// own base amounts.
type ProductBundle struct {
	ID                 uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string                  `gorm:"column:code;not null;uniqueIndex"`
	Name               string                  `gorm:"column:name;not null"`
	Calculated         bool                    `gorm:"column:calculated;not null;default:false"`
	SelectionRuleType  enums.SelectionRuleType `gorm:"column:selection_rule_type;not null;default:'select_all'"`
	SelectionParameter int                     `gorm:"column:selection_parameter;not null;default:0"`
	Constituents       []BundleConstituent     `gorm:"foreignKey:BundleCode;references:Code;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
