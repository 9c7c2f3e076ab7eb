package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogStore is the persistent catalog the service reads and replaces.
// Implemented by store.Store.
type CatalogStore interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	ReplaceProducts(ctx context.Context, products []models.Product) error
}

// CatalogCache holds the serialized public catalog. Implemented by
// redisclient.Client.
type CatalogCache interface {
	GetCatalogCache(ctx context.Context) ([]byte, error)
	SetCatalogCache(ctx context.Context, payload []byte, ttl time.Duration) error
	DropCatalogCache(ctx context.Context) error
}

var (
	_ CatalogStore = (*store.Store)(nil)
	_ CatalogCache = (*redisclient.Client)(nil)
)

// CatalogService serves the public catalog read path and the admin
// replace-all write path. Reads go through a Redis cache dropped on every
// write; the store itself is last-writer-wins with no versioning.
type CatalogService struct {
	store     CatalogStore
	redis     CatalogCache
	publisher *broker.EventPublisher
	currency  *CurrencyClient
	logger    *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	store CatalogStore,
	redis CatalogCache,
	publisher *broker.EventPublisher,
	currency *CurrencyClient,
) *CatalogService {
	return &CatalogService{
		store:     store,
		redis:     redis,
		publisher: publisher,
		currency:  currency,
		logger:    util.GetLogger(),
	}
}

// Products returns the catalog, optionally with prices converted to
// currencyCode for display. Conversion is presentation-only: checkout always
// prices in the base currency regardless of what was shown here.
func (s *CatalogService) Products(ctx context.Context, currencyCode string) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Products")
	defer span.End()

	if currencyCode == "" {
		return s.loadProducts(ctx)
	}

	// resolve the rate first so a bad code fails before the catalog is touched
	rate, err := s.currency.Rate(ctx, currencyCode)
	if err != nil {
		util.CurrencyConversionsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	util.CurrencyConversionsTotal.WithLabelValues("success").Inc()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	converted := make([]models.Product, len(products))
	for i, p := range products {
		p.Price = p.Price.Mul(rate).Round(2)
		converted[i] = p
	}
	return converted, nil
}

// Snapshot returns the catalog indexed by product id for the resolver
func (s *CatalogService) Snapshot(ctx context.Context) (map[string]*models.Product, error) {
	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return CatalogSnapshot(products), nil
}

// AdminProducts returns the catalog straight from the store, bypassing the
// cache, including internal override data
func (s *CatalogService) AdminProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.GetProducts(ctx)
}

// ReplaceProducts validates and writes a full replacement catalog, drops the
// cache, and announces the change
func (s *CatalogService) ReplaceProducts(ctx context.Context, products []models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.ReplaceProducts")
	defer span.End()

	if err := models.ValidateProducts(products); err != nil {
		return businessErr("InvalidCatalog", "", err.Error())
	}

	if err := s.store.ReplaceProducts(ctx, products); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	util.CatalogReplacementsTotal.Inc()
	s.logger.Info("Catalog replaced", zap.Int("count", len(products)))

	if err := s.redis.DropCatalogCache(ctx); err != nil {
		s.logger.Warn("Failed to drop catalog cache", zap.Error(err))
	}

	if s.publisher != nil {
		event := &models.CatalogReplacedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCatalogReplaced,
				Timestamp: time.Now(),
			},
			ProductCount: len(products),
		}
		if err := s.publisher.PublishCatalogReplaced(ctx, event); err != nil {
			s.logger.Error("Failed to publish CatalogReplaced event", zap.Error(err))
		}
	}

	return nil
}

// InvalidateCache drops the Redis catalog cache. Called by the catalog worker
// when another instance replaces the catalog.
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	return s.redis.DropCatalogCache(ctx)
}

func (s *CatalogService) loadProducts(ctx context.Context) ([]models.Product, error) {
	cached, err := s.redis.GetCatalogCache(ctx)
	if err != nil {
		s.logger.Warn("Catalog cache lookup failed", zap.Error(err))
	} else if cached != nil {
		var products []models.Product
		if uerr := json.Unmarshal(cached, &products); uerr == nil {
			util.CatalogCacheHitsTotal.WithLabelValues("hit").Inc()
			return products, nil
		} else {
			s.logger.Warn("Dropping undecodable catalog cache entry", zap.Error(uerr))
			_ = s.redis.DropCatalogCache(ctx)
		}
	}
	util.CatalogCacheHitsTotal.WithLabelValues("miss").Inc()

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if payload, err := json.Marshal(products); err == nil {
		if err := s.redis.SetCatalogCache(ctx, payload, catalogCacheTTL); err != nil {
			s.logger.Warn("Failed to store catalog cache", zap.Error(err))
		}
	}

	return products, nil
}
