package baseamounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/pricebook-backend/pkg/db"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/pricebook-backend/pkg/pagination"
)

// Service exposes base amount management operations.
type Service interface {
	Create(ctx context.Context, input CreateBaseAmountInput) (*models.BaseAmount, error)
	Update(ctx context.Context, guid string, input UpdateBaseAmountInput) (*models.BaseAmount, error)
	Delete(ctx context.Context, guid string) error
	List(ctx context.Context, priceListGUID string, params pagination.Params) ([]models.BaseAmount, string, error)
}

// CreateBaseAmountInput holds the payload to create a base amount. Quantity
// arrives as a decimal so fractional values can be rejected explicitly rather
// than silently truncated.
type CreateBaseAmountInput struct {
	GUID          string
	PriceListGUID string
	ObjectGUID    string
	ObjectType    enums.BaseAmountObjectType
	Quantity      decimal.Decimal
	ListValue     decimal.Decimal
	SaleValue     *decimal.Decimal
}

// UpdateBaseAmountInput holds optional mutation values. A nil field leaves
// the current value untouched; ClearSale removes the sale value.
type UpdateBaseAmountInput struct {
	ListValue *decimal.Decimal
	SaleValue *decimal.Decimal
	ClearSale bool
}

type priceListReader interface {
	FindByGUID(ctx context.Context, guid string) (*models.PriceList, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo       *Repository
	dbClient   *dbpkg.Client
	priceLists priceListReader
	events     eventEmitter
}

// NewService constructs a base amount service instance.
func NewService(repo *Repository, dbClient *dbpkg.Client, priceLists priceListReader, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("base amount repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if priceLists == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, priceLists: priceLists, events: events}, nil
}

// Create validates and persists a new base amount, emitting a price update
// event in the same transaction.
func (s *service) Create(ctx context.Context, input CreateBaseAmountInput) (*models.BaseAmount, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.priceLists.FindByGUID(ctx, input.PriceListGUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list "+input.PriceListGUID+" not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price list")
	}

	guid := input.GUID
	if guid == "" {
		guid = uuid.NewString()
	}
	row := &models.BaseAmount{
		GUID:          guid,
		ObjectGUID:    input.ObjectGUID,
		ObjectType:    input.ObjectType,
		Quantity:      int(input.Quantity.IntPart()),
		ListValue:     input.ListValue,
		SaleValue:     input.SaleValue,
		PriceListGUID: input.PriceListGUID,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Insert(ctx, row); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_base_amounts_pl_object_qty") {
				return pkgerrors.New(pkgerrors.CodeConflict,
					"base amount already exists for this object and quantity")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert base amount")
		}
		return s.emitPriceUpdated(ctx, tx, row)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create base amount")
	}
	return row, nil
}

// Update applies changed values to an existing base amount and emits a price
// update event in the same transaction.
func (s *service) Update(ctx context.Context, guid string, input UpdateBaseAmountInput) (*models.BaseAmount, error) {
	if err := validateUpdateInput(input); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "base amount "+guid+" not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load base amount")
	}

	if input.ListValue != nil {
		row.ListValue = *input.ListValue
	}
	if input.ClearSale {
		row.SaleValue = nil
	} else if input.SaleValue != nil {
		row.SaleValue = input.SaleValue
	}
	// The sale/list comparison runs against the merged row so a list value
	// lowered below a kept sale value is caught too.
	if err := validateMergedValues(row); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update base amount")
		}
		return s.emitPriceUpdated(ctx, tx, row)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update base amount")
	}
	return row, nil
}

// Delete removes a base amount and emits a price removed event in the same
// transaction.
func (s *service) Delete(ctx context.Context, guid string) error {
	row, err := s.repo.FindByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "base amount "+guid+" not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load base amount")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, guid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete base amount")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPriceRemoved,
			AggregateType: enums.AggregateBaseAmount,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceRemovedEvent{
				BaseAmountGUID: row.GUID,
				PriceListGUID:  row.PriceListGUID,
				ObjectGUID:     row.ObjectGUID,
				ObjectType:     row.ObjectType,
				Quantity:       row.Quantity,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete base amount")
	}
	return nil
}

// List returns one page of a price list's base amounts.
func (s *service) List(ctx context.Context, priceListGUID string, params pagination.Params) ([]models.BaseAmount, string, error) {
	if priceListGUID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "price_list_guid is required")
	}
	rows, next, err := s.repo.List(ctx, priceListGUID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list base amounts")
	}
	return rows, next, nil
}

func (s *service) emitPriceUpdated(ctx context.Context, tx *gorm.DB, row *models.BaseAmount) error {
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPriceUpdated,
		AggregateType: enums.AggregateBaseAmount,
		AggregateID:   row.ID,
		Version:       1,
		Data: payloads.PriceUpdatedEvent{
			BaseAmountGUID: row.GUID,
			PriceListGUID:  row.PriceListGUID,
			ObjectGUID:     row.ObjectGUID,
			ObjectType:     row.ObjectType,
			Quantity:       row.Quantity,
			ListValue:      row.ListValue,
			SaleValue:      row.SaleValue,
		},
	})
}

func validateCreateInput(input CreateBaseAmountInput) error {
	var errs error
	if input.PriceListGUID == "" {
		errs = multierr.Append(errs, fmt.Errorf("price_list_guid is required"))
	}
	if input.ObjectGUID == "" {
		errs = multierr.Append(errs, fmt.Errorf("object_guid is required"))
	}
	if !input.ObjectType.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("object_type %q is not supported", input.ObjectType))
	}
	if !input.Quantity.IsInteger() {
		errs = multierr.Append(errs, fmt.Errorf("quantity must be a whole number"))
	} else if input.Quantity.IntPart() < 1 {
		errs = multierr.Append(errs, fmt.Errorf("quantity must be at least 1"))
	}
	if input.ListValue.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("list_value cannot be negative"))
	}
	if input.SaleValue != nil && input.SaleValue.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("sale_value cannot be negative"))
	}
	if input.SaleValue != nil && input.SaleValue.GreaterThan(input.ListValue) {
		errs = multierr.Append(errs, fmt.Errorf("sale_value cannot exceed list_value"))
	}
	return validationError(errs)
}

func validateUpdateInput(input UpdateBaseAmountInput) error {
	var errs error
	if input.ListValue == nil && input.SaleValue == nil && !input.ClearSale {
		errs = multierr.Append(errs, fmt.Errorf("no fields to update"))
	}
	if input.ListValue != nil && input.ListValue.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("list_value cannot be negative"))
	}
	if input.SaleValue != nil && input.SaleValue.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("sale_value cannot be negative"))
	}
	if input.ClearSale && input.SaleValue != nil {
		errs = multierr.Append(errs, fmt.Errorf("sale_value and clear_sale are mutually exclusive"))
	}
	return validationError(errs)
}

func validateMergedValues(row *models.BaseAmount) error {
	if row.SaleValue != nil && row.SaleValue.GreaterThan(row.ListValue) {
		return validationError(fmt.Errorf("sale_value cannot exceed list_value"))
	}
	return nil
}

func validationError(errs error) error {
	collected := multierr.Errors(errs)
	if len(collected) == 0 {
		return nil
	}
	details := make([]string, 0, len(collected))
	for _, err := range collected {
		details = append(details, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid base amount").WithDetails(details)
}
