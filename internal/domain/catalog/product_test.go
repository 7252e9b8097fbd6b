package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

func sampleSourceProduct() integration.SourceProduct {
	return integration.SourceProduct{
		SourceCode:      integration.SourceCodeOwnerClan,
		SourceProductID: "OC-1001",
		Name:            "Stainless Tumbler 500ml",
		Description:     "<p>Keeps drinks cold</p>",
		CategoryName:    "Kitchen > Drinkware",
		CostPrice:       decimal.NewFromInt(5200),
		ShippingFee:     decimal.NewFromInt(2500),
		StockQuantity:   140,
	}
}

func TestNewProductFromSource(t *testing.T) {
	p, err := NewProductFromSource(sampleSourceProduct())
	require.NoError(t, err)

	assert.Equal(t, integration.SourceCodeOwnerClan, p.SourceCode)
	assert.Equal(t, "OC-1001", p.SourceProductID)
	assert.Equal(t, ProductStatusDraft, p.Status)
	assert.True(t, p.SalePrice.IsZero())
	assert.NotNil(t, p.LastCollectedAt)

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductCollected, events[0].EventType())
}

func TestNewProductFromSource_Invalid(t *testing.T) {
	sp := sampleSourceProduct()
	sp.SourceProductID = ""
	_, err := NewProductFromSource(sp)
	assert.Error(t, err)

	sp = sampleSourceProduct()
	sp.CostPrice = decimal.NewFromInt(-1)
	_, err = NewProductFromSource(sp)
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestProduct_UpdateFromSource_PriceChange(t *testing.T) {
	p, err := NewProductFromSource(sampleSourceProduct())
	require.NoError(t, err)
	p.ClearDomainEvents()

	sp := sampleSourceProduct()
	sp.CostPrice = decimal.NewFromInt(5800)
	sp.StockQuantity = 90

	changed, err := p.UpdateFromSource(sp)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(5800)))
	assert.Equal(t, 90, p.StockQuantity)

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductCostChanged, events[0].EventType())
}

func TestProduct_UpdateFromSource_SoldOutPausesActive(t *testing.T) {
	p, err := NewProductFromSource(sampleSourceProduct())
	require.NoError(t, err)
	require.NoError(t, p.SetSalePrice(decimal.NewFromInt(9900)))
	require.NoError(t, p.Activate())
	p.ClearDomainEvents()

	sp := sampleSourceProduct()
	sp.IsSoldOut = true

	_, err = p.UpdateFromSource(sp)
	require.NoError(t, err)
	assert.True(t, p.SoldOut)
	assert.Equal(t, ProductStatusPaused, p.Status)

	// Restock resumes sale
	sp.IsSoldOut = false
	_, err = p.UpdateFromSource(sp)
	require.NoError(t, err)
	assert.Equal(t, ProductStatusActive, p.Status)
}

func TestProduct_SetSalePrice(t *testing.T) {
	p, err := NewProductFromSource(sampleSourceProduct())
	require.NoError(t, err)

	err = p.SetSalePrice(decimal.NewFromInt(4000))
	assert.ErrorIs(t, err, ErrSaleBelowCost)

	err = p.SetSalePrice(decimal.NewFromInt(-100))
	assert.ErrorIs(t, err, ErrNegativePrice)

	require.NoError(t, p.SetSalePrice(decimal.NewFromInt(9900)))
	assert.True(t, p.Margin().Equal(decimal.NewFromInt(4700)))
}

func TestProduct_StatusTransitions(t *testing.T) {
	p, err := NewProductFromSource(sampleSourceProduct())
	require.NoError(t, err)

	// Cannot activate without a sale price
	assert.ErrorIs(t, p.Activate(), ErrNoSalePrice)

	require.NoError(t, p.SetSalePrice(decimal.NewFromInt(9900)))
	require.NoError(t, p.Activate())
	assert.Equal(t, ProductStatusActive, p.Status)
	assert.True(t, p.IsSellable())

	require.NoError(t, p.Pause())
	assert.Equal(t, ProductStatusPaused, p.Status)
	assert.False(t, p.IsSellable())

	// Paused products cannot be paused again
	assert.Error(t, p.Pause())

	require.NoError(t, p.Delist())
	assert.Equal(t, ProductStatusDelisted, p.Status)

	// Delisted is terminal
	assert.Error(t, p.Activate())
	assert.Error(t, p.Delist())
}
