package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
)

// CatalogWorker keeps this instance's catalog cache coherent with catalog
// replacements performed elsewhere: it consumes CatalogReplaced events and
// drops the local Redis cache entry.
type CatalogWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	stopCh       chan struct{}
}

// NewCatalogWorker creates a new catalog worker
func NewCatalogWorker(consumer *broker.Consumer, catalog *service.CatalogService) *CatalogWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnCatalogReplaced(func(ctx context.Context, event *models.CatalogReplacedEvent) error {
		log.Printf("Catalog replaced elsewhere (%d products), dropping cache", event.ProductCount)
		return catalog.InvalidateCache(ctx)
	})

	return &CatalogWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		stopCh:       make(chan struct{}),
	}
}

// Start begins consuming catalog events, blocking until ctx is cancelled
func (w *CatalogWorker) Start(ctx context.Context) error {
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop closes the underlying consumer
func (w *CatalogWorker) Stop() {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
		_ = w.consumer.Close()
	}
}
