package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", true},
		{"125.5", true},
		{"999999999999999999.99", true},
		{"1000000000000000000", false},
		{"100000000000000000000000000000.00", false},
		{"0", false},
		{"-1.00", false},
		{"1.005", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFitsBalance(t *testing.T) {
	assert.True(t, FitsBalance(decimal.RequireFromString("-999999999999999999.99")))
	assert.True(t, FitsBalance(decimal.Zero))
	assert.False(t, FitsBalance(decimal.RequireFromString("1000000000000000000")))
	assert.False(t, FitsBalance(decimal.RequireFromString("-1000000000000000000")))
}
