package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingRule_Apply(t *testing.T) {
	rule := DefaultPricingRule()

	// cost 5200 + shipping 2500 = 7700; 30% margin = 2310; 10010 -> 10100
	price := rule.Apply(decimal.NewFromInt(5200), decimal.NewFromInt(2500))
	assert.True(t, price.Equal(decimal.NewFromInt(10100)), "got %s", price)
}

func TestPricingRule_Apply_MinMarginFloor(t *testing.T) {
	rule := DefaultPricingRule()

	// cost 1000, no shipping; 30% = 300 < min margin 1000 -> 2000
	price := rule.Apply(decimal.NewFromInt(1000), decimal.Zero)
	assert.True(t, price.Equal(decimal.NewFromInt(2000)), "got %s", price)
}

func TestPricingRule_Apply_ExcludeShipping(t *testing.T) {
	rule := DefaultPricingRule()
	rule.IncludeShipping = false

	// base 5000; 30% = 1500; 6500 is already a multiple of 100
	price := rule.Apply(decimal.NewFromInt(5000), decimal.NewFromInt(2500))
	assert.True(t, price.Equal(decimal.NewFromInt(6500)), "got %s", price)
}

func TestPricingRule_Apply_NoRounding(t *testing.T) {
	rule := DefaultPricingRule()
	rule.RoundTo = decimal.Zero
	rule.IncludeShipping = false

	price := rule.Apply(decimal.NewFromInt(1234), decimal.Zero)
	// 1234 * 1.3 = 1604.2 but min margin 1000 wins: 2234
	assert.True(t, price.Equal(decimal.NewFromInt(2234)), "got %s", price)
}

func TestPricingRule_Validate(t *testing.T) {
	rule := DefaultPricingRule()
	require.NoError(t, rule.Validate())

	rule.MarginRate = decimal.NewFromInt(-1)
	assert.Error(t, rule.Validate())
}
