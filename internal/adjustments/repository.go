package adjustments

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
)

// Repository persists constituent price adjustments and serves them to the
// bundle price resolver.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByPriceListAndConstituents returns the adjustments scoped to one price
// list for the given constituents, keyed by constituent GUID. Implements
// pricing.AdjustmentResolver.
func (r *Repository) FindByPriceListAndConstituents(ctx context.Context, priceListGUID string, constituentGUIDs []string) (map[string]*pricing.PriceAdjustment, error) {
	if priceListGUID == "" || len(constituentGUIDs) == 0 {
		return map[string]*pricing.PriceAdjustment{}, nil
	}
	var rows []models.PriceAdjustment
	if err := r.db.WithContext(ctx).
		Where("price_list_guid = ? AND constituent_guid IN ?", priceListGUID, constituentGUIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byConstituent := make(map[string]*pricing.PriceAdjustment, len(rows))
	for _, row := range rows {
		byConstituent[row.ConstituentGUID] = &pricing.PriceAdjustment{
			GUID:          row.GUID,
			PriceListGUID: row.PriceListGUID,
			Amount:        row.Amount,
		}
	}
	return byConstituent, nil
}

// Upsert creates or replaces the adjustment for a constituent within a price
// list.
func (r *Repository) Upsert(ctx context.Context, row *models.PriceAdjustment) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where(
		"price_list_guid = ? AND constituent_guid = ?",
		row.PriceListGUID, row.ConstituentGUID,
	).Delete(&models.PriceAdjustment{}).Error; err != nil {
		return err
	}
	return tx.Create(row).Error
}

// Delete removes the adjustment by GUID.
func (r *Repository) Delete(ctx context.Context, guid string) error {
	return r.db.WithContext(ctx).Where("guid = ?", guid).Delete(&models.PriceAdjustment{}).Error
}

// FindByGUID loads a single adjustment.
func (r *Repository) FindByGUID(ctx context.Context, guid string) (*models.PriceAdjustment, error) {
	var row models.PriceAdjustment
	if err := r.db.WithContext(ctx).First(&row, "guid = ?", guid).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
