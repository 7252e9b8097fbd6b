package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesWindow holds the sales aggregates for one time window
type SalesWindow struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	OrderCount  int64           `json:"order_count"`
	ItemCount   int64           `json:"item_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Margin      decimal.Decimal `json:"margin"`
}

// MarginRate returns margin divided by total amount, zero when there are
// no sales
func (w SalesWindow) MarginRate() decimal.Decimal {
	if w.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return w.Margin.Div(w.TotalAmount).Round(4)
}

// CatalogSummary holds the product counts by lifecycle status
type CatalogSummary struct {
	Total    int64 `json:"total"`
	Draft    int64 `json:"draft"`
	Active   int64 `json:"active"`
	Paused   int64 `json:"paused"`
	Delisted int64 `json:"delisted"`
	SoldOut  int64 `json:"sold_out"`
}

// ListingSummary holds the marketplace listing counts by sync status
type ListingSummary struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Synced      int64 `json:"synced"`
	Failed      int64 `json:"failed"`
	SyncEnabled int64 `json:"sync_enabled"`
}

// OrderSummary holds the order counts by pipeline status
type OrderSummary struct {
	Received        int64 `json:"received"`
	Confirmed       int64 `json:"confirmed"`
	SupplierOrdered int64 `json:"supplier_ordered"`
	Shipped         int64 `json:"shipped"`
	Delivered       int64 `json:"delivered"`
	Cancelled       int64 `json:"cancelled"`
}

// PendingCount returns orders that still need operator or pipeline action
func (s OrderSummary) PendingCount() int64 {
	return s.Received + s.Confirmed + s.SupplierOrdered
}

// Snapshot is the full dashboard payload. It is built by the dashboard
// service, cached in Redis, and pushed to websocket subscribers.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Today       SalesWindow    `json:"today"`
	Last7Days   SalesWindow    `json:"last_7_days"`
	Last30Days  SalesWindow    `json:"last_30_days"`
	Catalog     CatalogSummary `json:"catalog"`
	Listings    ListingSummary `json:"listings"`
	Orders      OrderSummary   `json:"orders"`
	UnreadCount int64          `json:"unread_count"`
}
