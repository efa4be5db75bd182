package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog product; its sellable variants live in ProductSKU.
type Product struct {
	ID        uuid.UUID    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string       `gorm:"column:code;not null;uniqueIndex"`
	Name      string       `gorm:"column:name;not null"`
	SKUs      []ProductSKU `gorm:"foreignKey:ProductCode;references:Code;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
