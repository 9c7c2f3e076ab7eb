package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog map[string]*models.Product

func (c staticCatalog) Snapshot(ctx context.Context) (map[string]*models.Product, error) {
	return c, nil
}

type failingCatalog struct{ err error }

func (c failingCatalog) Snapshot(ctx context.Context) (map[string]*models.Product, error) {
	return nil, c.err
}

func newTestCheckout(t *testing.T, catalog CatalogSource) (*CheckoutService, *payment.SimulatedProvider) {
	t.Helper()

	sim := payment.NewSimulatedProvider("simulated")
	providers := payment.NewRegistry()
	providers.Register(sim)

	svc := NewCheckoutService(catalog, providers, nil, CheckoutOptions{
		BaseCurrency:    "USD",
		SuccessURL:      "https://shop.example.com/success/",
		CancelURL:       "https://shop.example.com/cancel/",
		ProviderTimeout: time.Second,
	})
	return svc, sim
}

func TestCreateSessionHappyPath(t *testing.T) {
	svc, sim := newTestCheckout(t, staticCatalog(testCatalog()))

	resp, err := svc.CreateSession(context.Background(), &CheckoutRequest{
		Type:  "simulated",
		Items: []CheckoutRequestItem{{ID: "P1", Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Contains(t, resp.URL, "https://pay.example.com/session/")

	sessions := sim.Sessions()
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Items, 1)
	assert.True(t, sessions[0].Items[0].UnitPrice.Equal(price("100.00")))
	assert.Equal(t, 2, sessions[0].Items[0].Quantity)
	assert.True(t, sessions[0].Total().Equal(price("200.00")))
	assert.Equal(t, "USD", sessions[0].Currency)
	assert.NotEmpty(t, sessions[0].Reference)
}

func TestCreateSessionRepeatableWithIdenticalPricing(t *testing.T) {
	svc, sim := newTestCheckout(t, staticCatalog(testCatalog()))

	req := &CheckoutRequest{
		Type: "simulated",
		Items: []CheckoutRequestItem{
			{ID: "P2", Quantity: 1, Overrides: &SelectedOverrides{Color: "blk", Size: 128}},
		},
	}

	_, err := svc.CreateSession(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.CreateSession(context.Background(), req)
	require.NoError(t, err)

	sessions := sim.Sessions()
	require.Len(t, sessions, 2)
	assert.NotEqual(t, sessions[0].Reference, sessions[1].Reference)
	assert.True(t, sessions[0].Total().Equal(sessions[1].Total()))
	assert.True(t, sessions[0].Items[0].UnitPrice.Equal(sessions[1].Items[0].UnitPrice))
}

func TestCreateSessionUnknownProductSkipsProvider(t *testing.T) {
	svc, sim := newTestCheckout(t, staticCatalog(testCatalog()))

	_, err := svc.CreateSession(context.Background(), &CheckoutRequest{
		Type:  "simulated",
		Items: []CheckoutRequestItem{{ID: "missing", Quantity: 1}},
	})

	var bizErr *BusinessRuleError
	require.ErrorAs(t, err, &bizErr)
	assert.Equal(t, ReasonUnknownProduct, bizErr.Reason)
	assert.Empty(t, sim.Sessions(), "no provider call may happen for a failed resolution")
}

func TestCreateSessionShapeFailureSkipsProvider(t *testing.T) {
	svc, sim := newTestCheckout(t, staticCatalog(testCatalog()))

	_, err := svc.CreateSession(context.Background(), &CheckoutRequest{
		Type:  "stripe",
		Items: []CheckoutRequestItem{{ID: "P1", Quantity: 1}},
	})

	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "type", shapeErr.Field)
	assert.Empty(t, sim.Sessions())
}

func TestCreateSessionProviderFailure(t *testing.T) {
	svc, sim := newTestCheckout(t, staticCatalog(testCatalog()))
	sim.FailWith(errors.New("gateway down"))

	_, err := svc.CreateSession(context.Background(), &CheckoutRequest{
		Type:  "simulated",
		Items: []CheckoutRequestItem{{ID: "P1", Quantity: 1}},
	})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "simulated", provErr.Provider)
}

func TestCreateSessionCatalogFailure(t *testing.T) {
	boom := errors.New("db down")
	svc, sim := newTestCheckout(t, failingCatalog{err: boom})

	_, err := svc.CreateSession(context.Background(), &CheckoutRequest{
		Type:  "simulated",
		Items: []CheckoutRequestItem{{ID: "P1", Quantity: 1}},
	})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sim.Sessions())
}
