package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PriceListAssignment binds a price list to a catalog with a priority.
// Assignments for the same catalog and currency form the price list stack,
// ordered by ascending priority. Stores limits the assignment to specific
// storefronts; empty means all.
type PriceListAssignment struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GUID          string         `gorm:"column:guid;not null;uniqueIndex"`
	PriceListGUID string         `gorm:"column:price_list_guid;not null;index"`
	CatalogGUID   string         `gorm:"column:catalog_guid;not null;index"`
	Priority      int            `gorm:"column:priority;not null;default:0"`
	Stores        pq.StringArray `gorm:"column:stores;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
