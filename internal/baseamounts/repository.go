package baseamounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/pagination"
)

// Repository provides persistence for base amounts and doubles as the bulk
// read side the price resolver consumes.
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

// GetBaseAmounts fetches every record matching the given price lists and
// catalog objects in one query and maps them to the resolver's domain shape.
func (r *Repository) GetBaseAmounts(ctx context.Context, priceListGUIDs, objectGUIDs []string) ([]pricing.BaseAmount, error) {
	if len(priceListGUIDs) == 0 || len(objectGUIDs) == 0 {
		return nil, nil
	}
	var rows []models.BaseAmount
	if err := r.db.WithContext(ctx).
		Where("price_list_guid IN ? AND object_guid IN ?", priceListGUIDs, objectGUIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	amounts := make([]pricing.BaseAmount, 0, len(rows))
	for _, row := range rows {
		listValue := row.ListValue
		amount := pricing.BaseAmount{
			GUID:          row.GUID,
			ObjectGUID:    row.ObjectGUID,
			ObjectType:    row.ObjectType,
			Quantity:      row.Quantity,
			ListValue:     &listValue,
			PriceListGUID: row.PriceListGUID,
		}
		if row.SaleValue != nil {
			saleValue := *row.SaleValue
			amount.SaleValue = &saleValue
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}

// FindByGUID loads a single base amount.
func (r *Repository) FindByGUID(ctx context.Context, guid string) (*models.BaseAmount, error) {
	var row models.BaseAmount
	if err := r.db.WithContext(ctx).First(&row, "guid = ?", guid).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert persists a new base amount.
func (r *Repository) Insert(ctx context.Context, row *models.BaseAmount) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update saves changed values on an existing base amount.
func (r *Repository) Update(ctx context.Context, row *models.BaseAmount) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the base amount by GUID.
func (r *Repository) Delete(ctx context.Context, guid string) error {
	return r.db.WithContext(ctx).Where("guid = ?", guid).Delete(&models.BaseAmount{}).Error
}

// List returns a page of base amounts for one price list using cursor
// pagination, newest first.
func (r *Repository) List(ctx context.Context, priceListGUID string, params pagination.Params) ([]models.BaseAmount, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Where("price_list_guid = ?", priceListGUID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.BaseAmount
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
