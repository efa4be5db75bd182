package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_skus (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  product_code TEXT NOT NULL,
  start_date DATETIME,
  end_date DATETIME,
  payment_frequency TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_bundles (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  calculated INTEGER NOT NULL DEFAULT 0,
  selection_rule_type TEXT NOT NULL DEFAULT 'select_all',
  selection_parameter INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS bundle_constituents (
  id TEXT PRIMARY KEY,
  guid TEXT NOT NULL UNIQUE,
  bundle_code TEXT NOT NULL,
  ordering INTEGER NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 1,
  item_kind TEXT NOT NULL,
  item_code TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	t.Cleanup(func() {
		for _, table := range []string{"products", "product_skus", "product_bundles", "bundle_constituents"} {
			_ = db.Exec("DROP TABLE IF EXISTS " + table).Error
		}
	})
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code string, skuCodes ...string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{ID: uuid.New(), Code: code, Name: code}).Error)
	for _, skuCode := range skuCodes {
		require.NoError(t, db.Create(&models.ProductSKU{
			ID:          uuid.New(),
			Code:        skuCode,
			ProductCode: code,
		}).Error)
	}
}

func seedBundle(t *testing.T, db *gorm.DB, code string, calculated bool, constituents ...models.BundleConstituent) {
	t.Helper()
	require.NoError(t, db.Create(&models.ProductBundle{
		ID:                uuid.New(),
		Code:              code,
		Name:              code,
		Calculated:        calculated,
		SelectionRuleType: enums.SelectionRuleAll,
	}).Error)
	for i := range constituents {
		constituents[i].ID = uuid.New()
		constituents[i].BundleCode = code
		require.NoError(t, db.Create(&constituents[i]).Error)
	}
}

func TestFindProductByCodeLoadsSKUs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "P-1", "SKU-1A", "SKU-1B")

	product, err := repo.FindProductByCode(context.Background(), "P-1")
	require.NoError(t, err)
	assert.Equal(t, "P-1", product.Code)
	require.Len(t, product.SKUs, 2)
	for _, sku := range product.SKUs {
		assert.Equal(t, "P-1", sku.ProductCode)
	}
}

func TestFindProductByCodeNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindProductByCode(context.Background(), "P-MISSING")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestFindBundleByCodeResolvesConstituentsInOrder(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "P-1", "SKU-1")
	seedProduct(t, db, "P-2", "SKU-2")
	seedBundle(t, db, "BDL-1", true,
		models.BundleConstituent{GUID: "c-2", Ordering: 2, Quantity: 1, ItemKind: enums.ConstituentItemProduct, ItemCode: "P-2"},
		models.BundleConstituent{GUID: "c-1", Ordering: 1, Quantity: 2, ItemKind: enums.ConstituentItemSKU, ItemCode: "SKU-1"},
	)

	bundle, err := repo.FindBundleByCode(context.Background(), "BDL-1")
	require.NoError(t, err)
	assert.True(t, bundle.Calculated)
	require.Len(t, bundle.Constituents, 2)

	first := bundle.Constituents[0]
	assert.Equal(t, "c-1", first.GUID)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, enums.ConstituentItemSKU, first.Item.Kind)
	assert.Equal(t, "SKU-1", first.Item.Code())

	second := bundle.Constituents[1]
	assert.Equal(t, enums.ConstituentItemProduct, second.Item.Kind)
	assert.Equal(t, "P-2", second.Item.Code())
}

func TestFindBundleByCodeResolvesNestedBundles(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedProduct(t, db, "P-1", "SKU-1")
	seedBundle(t, db, "BDL-INNER", true,
		models.BundleConstituent{GUID: "inner-1", Ordering: 1, Quantity: 1, ItemKind: enums.ConstituentItemProduct, ItemCode: "P-1"},
	)
	seedBundle(t, db, "BDL-OUTER", true,
		models.BundleConstituent{GUID: "outer-1", Ordering: 1, Quantity: 1, ItemKind: enums.ConstituentItemBundle, ItemCode: "BDL-INNER"},
	)

	bundle, err := repo.FindBundleByCode(context.Background(), "BDL-OUTER")
	require.NoError(t, err)
	require.Len(t, bundle.Constituents, 1)
	nested := bundle.Constituents[0].Item.Bundle
	require.NotNil(t, nested)
	assert.Equal(t, "BDL-INNER", nested.Code)
	require.Len(t, nested.Constituents, 1)
	assert.Equal(t, "P-1", nested.Constituents[0].Item.Code())
}

func TestFindBundleByCodeRejectsCycles(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	seedBundle(t, db, "BDL-A", true,
		models.BundleConstituent{GUID: "a-1", Ordering: 1, Quantity: 1, ItemKind: enums.ConstituentItemBundle, ItemCode: "BDL-B"},
	)
	seedBundle(t, db, "BDL-B", true,
		models.BundleConstituent{GUID: "b-1", Ordering: 1, Quantity: 1, ItemKind: enums.ConstituentItemBundle, ItemCode: "BDL-A"},
	)

	_, err := repo.FindBundleByCode(context.Background(), "BDL-A")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSelectionRuleMapping(t *testing.T) {
	one := mapSelectionRule(models.ProductBundle{SelectionRuleType: enums.SelectionRuleOne})
	assert.Equal(t, 1, one.Parameter)

	all := mapSelectionRule(models.ProductBundle{SelectionRuleType: enums.SelectionRuleAll, SelectionParameter: 4})
	assert.Zero(t, all.Parameter)

	n := mapSelectionRule(models.ProductBundle{SelectionRuleType: enums.SelectionRuleParameterized, SelectionParameter: 3})
	assert.Equal(t, 3, n.Parameter)
}
