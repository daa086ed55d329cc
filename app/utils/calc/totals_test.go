package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTax(t *testing.T) {
	tax := CalculateTax(decimal.NewFromInt(1000))
	assert.True(t, tax.Equal(decimal.NewFromInt(50)), "got %s", tax)
}

func TestShippingFee(t *testing.T) {
	assert.True(t, ShippingFee(decimal.NewFromInt(4999)).Equal(decimal.NewFromInt(100)))
	// Waived strictly above the threshold, not at it.
	assert.True(t, ShippingFee(decimal.NewFromInt(5000)).Equal(decimal.NewFromInt(100)))
	assert.True(t, ShippingFee(decimal.NewFromInt(5001)).Equal(decimal.Zero))
}

func TestGrandTotal(t *testing.T) {
	total := GrandTotal(
		decimal.NewFromInt(1000),
		decimal.NewFromInt(50),
		decimal.NewFromInt(100),
		decimal.NewFromInt(50),
	)
	assert.True(t, total.Equal(decimal.NewFromInt(1100)), "got %s", total)
}
