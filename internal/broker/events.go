package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events. Catalog events go to the
// topic the cache-invalidation worker consumes; activity events (checkout
// sessions, admin logins) go to their own topic so consumers of one never see
// the other.
type EventPublisher struct {
	catalog  *Producer
	activity *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(catalog, activity *Producer) *EventPublisher {
	return &EventPublisher{catalog: catalog, activity: activity}
}

// PublishCatalogReplaced publishes CatalogReplaced event
func (ep *EventPublisher) PublishCatalogReplaced(ctx context.Context, event *models.CatalogReplacedEvent) error {
	return ep.catalog.PublishEvent(ctx, "catalog", event)
}

// PublishCheckoutSessionCreated publishes CheckoutSessionCreated event
func (ep *EventPublisher) PublishCheckoutSessionCreated(ctx context.Context, event *models.CheckoutSessionCreatedEvent) error {
	key := fmt.Sprintf("checkout-%s", event.Reference)
	return ep.activity.PublishEvent(ctx, key, event)
}

// PublishAdminLogin publishes AdminLogin event
func (ep *EventPublisher) PublishAdminLogin(ctx context.Context, event *models.AdminLoginEvent) error {
	return ep.activity.PublishEvent(ctx, "admin", event)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onCatalogReplaced func(context.Context, *models.CatalogReplacedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnCatalogReplaced registers a handler for CatalogReplaced events
func (eh *EventHandler) OnCatalogReplaced(handler func(context.Context, *models.CatalogReplacedEvent) error) {
	eh.onCatalogReplaced = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeCatalogReplaced:
		if eh.onCatalogReplaced != nil {
			var event models.CatalogReplacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CatalogReplaced event: %w", err)
			}
			return eh.onCatalogReplaced(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
