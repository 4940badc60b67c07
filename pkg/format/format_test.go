package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuantity(t *testing.T) {
	assert.Equal(t, "10", Quantity(decimal.NewFromFloat(10.0)))
	assert.Equal(t, "10.5", Quantity(decimal.NewFromFloat(10.5)))
	assert.Equal(t, "0", Quantity(decimal.Zero))
	assert.Equal(t, "-2", Quantity(decimal.NewFromInt(-2)))
	assert.Equal(t, "2.3", Quantity(decimal.RequireFromString("2.25")))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "10", Money(decimal.NewFromFloat(10.0)))
	assert.Equal(t, "10.50", Money(decimal.NewFromFloat(10.5)))
	assert.Equal(t, "1234.57", Money(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "10", Money(decimal.RequireFromString("10.00")))
}
