package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAcceptsWellFormedRequest(t *testing.T) {
	v := NewCheckoutValidator([]string{"midtrans"}, false)

	req := &CheckoutRequest{
		Type: "midtrans",
		Items: []CheckoutRequestItem{
			{ID: "p1", Quantity: 2},
		},
	}

	assert.Nil(t, v.Validate(req))
}

func TestValidatorShapeFailures(t *testing.T) {
	v := NewCheckoutValidator([]string{"midtrans", "simulated"}, false)

	tests := []struct {
		name  string
		req   *CheckoutRequest
		field string
	}{
		{
			"missing type",
			&CheckoutRequest{Items: []CheckoutRequestItem{{ID: "p1", Quantity: 1}}},
			"type",
		},
		{
			"unsupported provider",
			&CheckoutRequest{Type: "stripe", Items: []CheckoutRequestItem{{ID: "p1", Quantity: 1}}},
			"type",
		},
		{
			"empty items",
			&CheckoutRequest{Type: "midtrans"},
			"items",
		},
		{
			"missing item id",
			&CheckoutRequest{Type: "midtrans", Items: []CheckoutRequestItem{{Quantity: 1}}},
			"items[0].id",
		},
		{
			"zero quantity",
			&CheckoutRequest{Type: "midtrans", Items: []CheckoutRequestItem{
				{ID: "p1", Quantity: 1},
				{ID: "p2", Quantity: 0},
			}},
			"items[1].quantity",
		},
		{
			"negative quantity",
			&CheckoutRequest{Type: "midtrans", Items: []CheckoutRequestItem{{ID: "p1", Quantity: -2}}},
			"items[0].quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := v.Validate(tt.req)
			require.NotNil(t, serr)
			assert.Equal(t, tt.field, serr.Field)
		})
	}
}

func TestValidatorRequiresVariantSelection(t *testing.T) {
	v := NewCheckoutValidator([]string{"midtrans"}, true)

	serr := v.Validate(&CheckoutRequest{
		Type:  "midtrans",
		Items: []CheckoutRequestItem{{ID: "p1", Quantity: 1}},
	})
	require.NotNil(t, serr)
	assert.Equal(t, "items[0].overrides", serr.Field)

	serr = v.Validate(&CheckoutRequest{
		Type: "midtrans",
		Items: []CheckoutRequestItem{
			{ID: "p1", Quantity: 1, Overrides: &SelectedOverrides{Size: 128}},
		},
	})
	require.NotNil(t, serr)
	assert.Equal(t, "items[0].overrides.color", serr.Field)

	serr = v.Validate(&CheckoutRequest{
		Type: "midtrans",
		Items: []CheckoutRequestItem{
			{ID: "p1", Quantity: 1, Overrides: &SelectedOverrides{Color: "blk"}},
		},
	})
	require.NotNil(t, serr)
	assert.Equal(t, "items[0].overrides.size", serr.Field)

	assert.Nil(t, v.Validate(&CheckoutRequest{
		Type: "midtrans",
		Items: []CheckoutRequestItem{
			{ID: "p1", Quantity: 1, Overrides: &SelectedOverrides{Color: "blk", Size: 128}},
		},
	}))
}
