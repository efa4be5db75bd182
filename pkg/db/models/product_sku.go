package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// ProductSKU is a sellable variant. A non-null payment frequency marks the
// SKU as recurring; null dates leave the sale window open-ended.
type ProductSKU struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code             string                  `gorm:"column:code;not null;uniqueIndex"`
	ProductCode      string                  `gorm:"column:product_code;not null;index"`
	StartDate        *time.Time              `gorm:"column:start_date"`
	EndDate          *time.Time              `gorm:"column:end_date"`
	PaymentFrequency *enums.PaymentFrequency `gorm:"column:payment_frequency"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
