package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventMessage(t *testing.T, event interface{}) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestEventHandlerRoutesCatalogReplaced(t *testing.T) {
	handler := NewEventHandler()

	var got *models.CatalogReplacedEvent
	handler.OnCatalogReplaced(func(ctx context.Context, event *models.CatalogReplacedEvent) error {
		got = event
		return nil
	})

	msg := eventMessage(t, &models.CatalogReplacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e1",
			EventType: models.EventTypeCatalogReplaced,
			Timestamp: time.Now(),
		},
		ProductCount: 3,
	})

	require.NoError(t, handler.HandleMessage(context.Background(), msg))
	require.NotNil(t, got)
	assert.Equal(t, 3, got.ProductCount)
}

func TestEventHandlerIgnoresForeignEvents(t *testing.T) {
	handler := NewEventHandler()

	invoked := false
	handler.OnCatalogReplaced(func(ctx context.Context, event *models.CatalogReplacedEvent) error {
		invoked = true
		return nil
	})

	msg := eventMessage(t, &models.CheckoutSessionCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "e2",
			EventType: models.EventTypeCheckoutSessionCreated,
			Timestamp: time.Now(),
		},
		Reference: "ref-1",
	})

	require.NoError(t, handler.HandleMessage(context.Background(), msg))
	assert.False(t, invoked, "a checkout event must not trigger the catalog callback")
}

func TestEventHandlerRejectsGarbage(t *testing.T) {
	handler := NewEventHandler()
	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("{")})
	assert.Error(t, err)
}
