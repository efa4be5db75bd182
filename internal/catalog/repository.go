package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
)

// Repository loads catalog records and resolves them into the pricing domain.
// Bundle constituents are resolved recursively, nested bundles included.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindProductByCode loads a product with its SKUs.
func (r *Repository) FindProductByCode(ctx context.Context, code string) (*pricing.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).
		Preload("SKUs").
		First(&row, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product "+code+" not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return mapProduct(row), nil
}

// FindSKUByCode loads a single SKU.
func (r *Repository) FindSKUByCode(ctx context.Context, code string) (*pricing.SKU, error) {
	var row models.ProductSKU
	if err := r.db.WithContext(ctx).First(&row, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sku "+code+" not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sku")
	}
	return mapSKU(row), nil
}

// FindBundleByCode loads a bundle and resolves its full constituent tree.
func (r *Repository) FindBundleByCode(ctx context.Context, code string) (*pricing.Bundle, error) {
	return r.resolveBundle(ctx, code, map[string]bool{})
}

func (r *Repository) resolveBundle(ctx context.Context, code string, visiting map[string]bool) (*pricing.Bundle, error) {
	if visiting[code] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bundle "+code+" contains itself")
	}
	visiting[code] = true
	defer delete(visiting, code)

	var row models.ProductBundle
	if err := r.db.WithContext(ctx).
		Preload("Constituents").
		First(&row, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bundle "+code+" not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bundle")
	}

	sort.SliceStable(row.Constituents, func(i, j int) bool {
		return row.Constituents[i].Ordering < row.Constituents[j].Ordering
	})

	constituents := make([]*pricing.BundleConstituent, 0, len(row.Constituents))
	for _, entry := range row.Constituents {
		item, err := r.resolveItem(ctx, entry, visiting)
		if err != nil {
			return nil, err
		}
		constituents = append(constituents, &pricing.BundleConstituent{
			GUID:     entry.GUID,
			Quantity: entry.Quantity,
			Ordering: entry.Ordering,
			Item:     item,
		})
	}

	return &pricing.Bundle{
		Code:          row.Code,
		Name:          row.Name,
		Calculated:    row.Calculated,
		SelectionRule: mapSelectionRule(row),
		Constituents:  constituents,
	}, nil
}

func (r *Repository) resolveItem(ctx context.Context, entry models.BundleConstituent, visiting map[string]bool) (pricing.ConstituentItem, error) {
	switch entry.ItemKind {
	case enums.ConstituentItemProduct:
		product, err := r.FindProductByCode(ctx, entry.ItemCode)
		if err != nil {
			return pricing.ConstituentItem{}, err
		}
		return pricing.ProductItem(product), nil
	case enums.ConstituentItemSKU:
		sku, err := r.FindSKUByCode(ctx, entry.ItemCode)
		if err != nil {
			return pricing.ConstituentItem{}, err
		}
		return pricing.SKUItem(sku), nil
	case enums.ConstituentItemBundle:
		nested, err := r.resolveBundle(ctx, entry.ItemCode, visiting)
		if err != nil {
			return pricing.ConstituentItem{}, err
		}
		return pricing.BundleItem(nested), nil
	default:
		return pricing.ConstituentItem{}, pkgerrors.New(
			pkgerrors.CodeInternal,
			fmt.Sprintf("constituent %s has unknown item kind %q", entry.GUID, entry.ItemKind),
		)
	}
}

func mapProduct(row models.Product) *pricing.Product {
	skus := make([]*pricing.SKU, 0, len(row.SKUs))
	for _, sku := range row.SKUs {
		skus = append(skus, mapSKU(sku))
	}
	return &pricing.Product{
		Code: row.Code,
		Name: row.Name,
		SKUs: skus,
	}
}

func mapSKU(row models.ProductSKU) *pricing.SKU {
	return &pricing.SKU{
		Code:             row.Code,
		ProductCode:      row.ProductCode,
		StartDate:        row.StartDate,
		EndDate:          row.EndDate,
		PaymentFrequency: row.PaymentFrequency,
	}
}

// mapSelectionRule normalizes the stored rule into the selection semantics the
// calculator expects: parameter 0 selects every constituent.
func mapSelectionRule(row models.ProductBundle) *pricing.SelectionRule {
	rule := &pricing.SelectionRule{Type: row.SelectionRuleType}
	switch row.SelectionRuleType {
	case enums.SelectionRuleOne:
		rule.Parameter = 1
	case enums.SelectionRuleParameterized:
		rule.Parameter = row.SelectionParameter
	}
	return rule
}
