package adjustments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/pricebook-backend/pkg/db"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox/payloads"
)

// Service manages constituent price adjustments.
type Service interface {
	Set(ctx context.Context, input SetAdjustmentInput) (*models.PriceAdjustment, error)
	Remove(ctx context.Context, guid string) error
}

// SetAdjustmentInput creates or replaces the adjustment for one constituent
// within one price list. Amount must be non-zero; zero means "no adjustment"
// and is expressed by removing the row instead.
type SetAdjustmentInput struct {
	PriceListGUID   string
	ConstituentGUID string
	Amount          decimal.Decimal
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo     *Repository
	dbClient *dbpkg.Client
	events   eventEmitter
}

// NewService constructs an adjustment service instance.
func NewService(repo *Repository, dbClient *dbpkg.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("adjustment repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

// Set validates and stores the adjustment, emitting a change event in the
// same transaction.
func (s *service) Set(ctx context.Context, input SetAdjustmentInput) (*models.PriceAdjustment, error) {
	if input.PriceListGUID == "" || input.ConstituentGUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_list_guid and constituent_guid are required")
	}
	if input.Amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-zero; remove the adjustment instead")
	}

	row := &models.PriceAdjustment{
		GUID:            uuid.NewString(),
		PriceListGUID:   input.PriceListGUID,
		ConstituentGUID: input.ConstituentGUID,
		Amount:          input.Amount,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Upsert(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert adjustment")
		}
		amount := row.Amount
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdjustmentChanged,
			AggregateType: enums.AggregatePriceAdjustment,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceAdjustmentChangedEvent{
				AdjustmentGUID:  row.GUID,
				PriceListGUID:   row.PriceListGUID,
				ConstituentGUID: row.ConstituentGUID,
				Amount:          &amount,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set adjustment")
	}
	return row, nil
}

// Remove deletes the adjustment and emits a change event in the same
// transaction.
func (s *service) Remove(ctx context.Context, guid string) error {
	row, err := s.repo.FindByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "adjustment "+guid+" not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load adjustment")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, guid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete adjustment")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAdjustmentChanged,
			AggregateType: enums.AggregatePriceAdjustment,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceAdjustmentChangedEvent{
				AdjustmentGUID:  row.GUID,
				PriceListGUID:   row.PriceListGUID,
				ConstituentGUID: row.ConstituentGUID,
				Removed:         true,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove adjustment")
	}
	return nil
}
