package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount   string
		exponent int32
		want     int64
	}{
		{"100.00", 2, 10000},
		{"100.00", 0, 100},
		{"19.99", 2, 1999},
		{"0.01", 2, 1},
		{"200.00", 2, 20000},
		{"150.00", 0, 150},
		{"10.005", 2, 1001},
		{"10.004", 2, 1000},
		{"0", 2, 0},
	}

	for _, tt := range tests {
		got := MinorUnits(decimal.RequireFromString(tt.amount), tt.exponent)
		assert.Equal(t, tt.want, got, "MinorUnits(%s, %d)", tt.amount, tt.exponent)
	}
}
