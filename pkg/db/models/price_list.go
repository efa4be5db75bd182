package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

// PriceList is a named collection of base amounts in a single currency.
type PriceList struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GUID        string         `gorm:"column:guid;not null;uniqueIndex"`
	Name        string         `gorm:"column:name;not null"`
	Description *string        `gorm:"column:description"`
	Currency    enums.Currency `gorm:"column:currency;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
