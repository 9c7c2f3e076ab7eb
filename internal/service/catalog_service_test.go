package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCatalogStore struct {
	mu       sync.Mutex
	products []models.Product
	reads    int
	writes   int
}

func (m *memCatalogStore) GetProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	return m.products, nil
}

func (m *memCatalogStore) ReplaceProducts(ctx context.Context, products []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.products = products
	return nil
}

type memCatalogCache struct {
	mu      sync.Mutex
	payload []byte
	drops   int
}

func (m *memCatalogCache) GetCatalogCache(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payload, nil
}

func (m *memCatalogCache) SetCatalogCache(ctx context.Context, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = payload
	return nil
}

func (m *memCatalogCache) DropCatalogCache(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drops++
	m.payload = nil
	return nil
}

func catalogFixture() []models.Product {
	return []models.Product{
		{
			ID:        "P1",
			ShortName: "Phone",
			LongName:  "Phone Deluxe",
			Price:     price("100.00"),
			Quality:   models.QualityNew,
		},
	}
}

func TestReplaceProductsWritesThroughAndDropsCache(t *testing.T) {
	st := &memCatalogStore{}
	cache := &memCatalogCache{payload: []byte("stale")}
	svc := NewCatalogService(st, cache, nil, nil)

	err := svc.ReplaceProducts(context.Background(), catalogFixture())
	require.NoError(t, err)

	assert.Equal(t, 1, st.writes)
	require.Len(t, st.products, 1)
	assert.Equal(t, "P1", st.products[0].ID)

	assert.Equal(t, 1, cache.drops, "a replace must invalidate the cache")
	assert.Nil(t, cache.payload)
}

func TestReplaceProductsRejectsInvalidCatalog(t *testing.T) {
	st := &memCatalogStore{}
	cache := &memCatalogCache{payload: []byte("still-good")}
	svc := NewCatalogService(st, cache, nil, nil)

	bad := append(catalogFixture(), catalogFixture()...) // duplicate id
	err := svc.ReplaceProducts(context.Background(), bad)

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, 0, st.writes, "an invalid catalog must not reach the store")
	assert.Equal(t, 0, cache.drops, "an invalid catalog must not touch the cache")
}

func TestProductsUnknownCurrencyLeavesCatalogUntouched(t *testing.T) {
	srv := newRatesServer(t, http.StatusOK, `{"rates":{"EUR":0.5}}`)
	currency := NewCurrencyClient(srv.URL, "USD", time.Second, time.Minute, nil)

	st := &memCatalogStore{products: catalogFixture()}
	cache := &memCatalogCache{}
	svc := NewCatalogService(st, cache, nil, currency)

	_, err := svc.Products(context.Background(), "XXX")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.Equal(t, 0, st.reads, "a failed conversion must not query the catalog")
}

func TestProductsCachesOnMiss(t *testing.T) {
	st := &memCatalogStore{products: catalogFixture()}
	cache := &memCatalogCache{}
	svc := NewCatalogService(st, cache, nil, nil)

	got, err := svc.Products(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, st.reads)
	assert.NotNil(t, cache.payload)

	// second read is served from the cache
	got, err = svc.Products(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, st.reads)
}

func TestProductsConvertsForDisplay(t *testing.T) {
	srv := newRatesServer(t, http.StatusOK, `{"rates":{"EUR":0.5}}`)
	currency := NewCurrencyClient(srv.URL, "USD", time.Second, time.Minute, nil)

	st := &memCatalogStore{products: catalogFixture()}
	svc := NewCatalogService(st, &memCatalogCache{}, nil, currency)

	got, err := svc.Products(context.Background(), "EUR")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(price("50.00")))

	// the stored catalog keeps its base-currency price
	assert.True(t, st.products[0].Price.Equal(price("100.00")))
}
