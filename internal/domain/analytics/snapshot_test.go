package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSalesWindow_MarginRate(t *testing.T) {
	w := SalesWindow{
		TotalAmount: decimal.NewFromInt(100000),
		Margin:      decimal.NewFromInt(25000),
	}
	assert.True(t, w.MarginRate().Equal(decimal.NewFromFloat(0.25)))
}

func TestSalesWindow_MarginRateNoSales(t *testing.T) {
	var w SalesWindow
	assert.True(t, w.MarginRate().IsZero())
}

func TestOrderSummary_PendingCount(t *testing.T) {
	s := OrderSummary{Received: 3, Confirmed: 2, SupplierOrdered: 1, Shipped: 10, Delivered: 50}
	assert.Equal(t, int64(6), s.PendingCount())
}
