package pricelists

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
)

// Repository persists price lists and their catalog assignments.
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

// FindByGUID loads a single price list.
func (r *Repository) FindByGUID(ctx context.Context, guid string) (*models.PriceList, error) {
	var row models.PriceList
	if err := r.db.WithContext(ctx).First(&row, "guid = ?", guid).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert persists a new price list.
func (r *Repository) Insert(ctx context.Context, row *models.PriceList) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Delete removes the price list, its assignments and its base amounts.
func (r *Repository) Delete(ctx context.Context, guid string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("price_list_guid = ?", guid).Delete(&models.PriceListAssignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("price_list_guid = ?", guid).Delete(&models.BaseAmount{}).Error; err != nil {
		return err
	}
	return tx.Where("guid = ?", guid).Delete(&models.PriceList{}).Error
}

// ListAll returns every price list ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.PriceList, error) {
	var rows []models.PriceList
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindAssignmentByGUID loads a single assignment.
func (r *Repository) FindAssignmentByGUID(ctx context.Context, guid string) (*models.PriceListAssignment, error) {
	var row models.PriceListAssignment
	if err := r.db.WithContext(ctx).First(&row, "guid = ?", guid).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// InsertAssignment persists a new assignment.
func (r *Repository) InsertAssignment(ctx context.Context, row *models.PriceListAssignment) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// DeleteAssignment removes the assignment by GUID.
func (r *Repository) DeleteAssignment(ctx context.Context, guid string) error {
	return r.db.WithContext(ctx).Where("guid = ?", guid).Delete(&models.PriceListAssignment{}).Error
}

// AssignmentsForCatalog returns a catalog's assignments in ascending
// priority, joined with their price lists.
func (r *Repository) AssignmentsForCatalog(ctx context.Context, catalogGUID string) ([]models.PriceListAssignment, error) {
	var rows []models.PriceListAssignment
	if err := r.db.WithContext(ctx).
		Where("catalog_guid = ?", catalogGUID).
		Order("priority ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// PriceListsByGUIDs loads the referenced price lists keyed by GUID.
func (r *Repository) PriceListsByGUIDs(ctx context.Context, guids []string) (map[string]models.PriceList, error) {
	if len(guids) == 0 {
		return map[string]models.PriceList{}, nil
	}
	var rows []models.PriceList
	if err := r.db.WithContext(ctx).Where("guid IN ?", guids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byGUID := make(map[string]models.PriceList, len(rows))
	for _, row := range rows {
		byGUID[row.GUID] = row
	}
	return byGUID, nil
}
