package outbox

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricebook-backend/pkg/db/models"
	"github.com/angelmondragon/pricebook-backend/pkg/enums"
)

func TestEmitIfNotExistsSkipsQueuedDuplicate(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)

	event := DomainEvent{
		EventType:     enums.EventPriceUpdated,
		AggregateType: enums.AggregateBaseAmount,
		AggregateID:   uuid.New(),
		Version:       1,
		Data:          map[string]string{"object_guid": "SKU-1"},
	}

	require.NoError(t, svc.EmitIfNotExists(context.Background(), db, event))
	require.NoError(t, svc.EmitIfNotExists(context.Background(), db, event))

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEmitIfNotExistsRequiresTransaction(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.EmitIfNotExists(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}
