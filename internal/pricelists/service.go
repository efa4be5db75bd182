package pricelists

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricebook-backend/internal/pricing"
	dbpkg "github.com/angelmondragon/pricebook-backend/pkg/db"
	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricebook-backend/pkg/errors"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox"
	"github.com/angelmondragon/pricebook-backend/pkg/outbox/payloads"
)

// Service exposes price list and assignment management, plus stack
// resolution for price lookups.
type Service interface {
	Create(ctx context.Context, input CreatePriceListInput) (*models.PriceList, error)
	Delete(ctx context.Context, guid string) error
	List(ctx context.Context) ([]models.PriceList, error)
	Assign(ctx context.Context, input AssignInput) (*models.PriceListAssignment, error)
	Unassign(ctx context.Context, assignmentGUID string) error
	StackForCatalog(ctx context.Context, catalogGUID, store string, currency enums.Currency) (*pricing.PriceListStack, error)
}

// CreatePriceListInput holds the payload to create a price list.
type CreatePriceListInput struct {
	GUID        string
	Name        string
	Description *string
	Currency    enums.Currency
}

// AssignInput binds a price list to a catalog at a priority.
type AssignInput struct {
	PriceListGUID string
	CatalogGUID   string
	Priority      int
	Stores        []string
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo     *Repository
	dbClient *dbpkg.Client
	events   eventEmitter
}

// NewService constructs a price list service instance.
func NewService(repo *Repository, dbClient *dbpkg.Client, events eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price list repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, dbClient: dbClient, events: events}, nil
}

// Create validates and persists a new price list.
func (s *service) Create(ctx context.Context, input CreatePriceListInput) (*models.PriceList, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency "+string(input.Currency)+" is not supported")
	}

	guid := input.GUID
	if guid == "" {
		guid = uuid.NewString()
	}
	row := &models.PriceList{
		GUID:        guid,
		Name:        input.Name,
		Description: input.Description,
		Currency:    input.Currency,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Insert(ctx, row); err != nil {
			if dbpkg.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "price list "+guid+" already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert price list")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPriceListCreated,
			AggregateType: enums.AggregatePriceList,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceListCreatedEvent{
				PriceListGUID: row.GUID,
				Name:          row.Name,
				Currency:      row.Currency,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price list")
	}
	return row, nil
}

// Delete removes the price list along with its assignments and base amounts.
func (s *service) Delete(ctx context.Context, guid string) error {
	row, err := s.repo.FindByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price list "+guid+" not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price list")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Delete(ctx, guid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price list")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPriceListDeleted,
			AggregateType: enums.AggregatePriceList,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceListDeletedEvent{
				PriceListGUID: guid,
				DeletedAt:     time.Now().UTC(),
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price list")
	}
	return nil
}

// List returns every price list.
func (s *service) List(ctx context.Context) ([]models.PriceList, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list price lists")
	}
	return rows, nil
}

// Assign adds a price list to a catalog's stack.
func (s *service) Assign(ctx context.Context, input AssignInput) (*models.PriceListAssignment, error) {
	if input.PriceListGUID == "" || input.CatalogGUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_list_guid and catalog_guid are required")
	}
	if _, err := s.repo.FindByGUID(ctx, input.PriceListGUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list "+input.PriceListGUID+" not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price list")
	}

	row := &models.PriceListAssignment{
		GUID:          uuid.NewString(),
		PriceListGUID: input.PriceListGUID,
		CatalogGUID:   input.CatalogGUID,
		Priority:      input.Priority,
		Stores:        input.Stores,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.InsertAssignment(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert assignment")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPriceListAssigned,
			AggregateType: enums.AggregatePriceList,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceListAssignedEvent{
				AssignmentGUID: row.GUID,
				PriceListGUID:  row.PriceListGUID,
				CatalogGUID:    row.CatalogGUID,
				Priority:       row.Priority,
				Stores:         row.Stores,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign price list")
	}
	return row, nil
}

// Unassign removes a price list from a catalog's stack.
func (s *service) Unassign(ctx context.Context, assignmentGUID string) error {
	row, err := s.repo.FindAssignmentByGUID(ctx, assignmentGUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "assignment "+assignmentGUID+" not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load assignment")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteAssignment(ctx, assignmentGUID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete assignment")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPriceListUnassigned,
			AggregateType: enums.AggregatePriceList,
			AggregateID:   row.ID,
			Version:       1,
			Data: payloads.PriceListUnassignedEvent{
				AssignmentGUID: row.GUID,
				PriceListGUID:  row.PriceListGUID,
				CatalogGUID:    row.CatalogGUID,
			},
		})
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unassign price list")
	}
	return nil
}

// StackForCatalog builds the single-currency price list stack for a catalog:
// assignments sorted by ascending priority, filtered to the requested store
// (an empty store list matches every store) and currency.
func (s *service) StackForCatalog(ctx context.Context, catalogGUID, store string, currency enums.Currency) (*pricing.PriceListStack, error) {
	if catalogGUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog_guid is required")
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency "+string(currency)+" is not supported")
	}

	assignments, err := s.repo.AssignmentsForCatalog(ctx, catalogGUID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load assignments")
	}

	guids := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		if !assignmentMatchesStore(assignment, store) {
			continue
		}
		guids = append(guids, assignment.PriceListGUID)
	}

	lists, err := s.repo.PriceListsByGUIDs(ctx, guids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load price lists")
	}

	matched := make([]string, 0, len(guids))
	for _, guid := range guids {
		list, ok := lists[guid]
		if !ok || list.Currency != currency {
			continue
		}
		matched = append(matched, guid)
	}
	return pricing.NewPriceListStack(currency, matched...), nil
}

func assignmentMatchesStore(assignment models.PriceListAssignment, store string) bool {
	if len(assignment.Stores) == 0 {
		return true
	}
	for _, candidate := range assignment.Stores {
		if candidate == store {
			return true
		}
	}
	return false
}
