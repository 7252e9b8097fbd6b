package wholesaler

// ---------------------------------------------------------------------------
// Common OwnerClan API Response Types
// ---------------------------------------------------------------------------

// OwnerClanResponse is the base response wrapper for all OwnerClan API calls
type OwnerClanResponse struct {
	// Code is the result code (0 for success)
	Code int `json:"code"`
	// Message is the result message
	Message string `json:"message"`
	// TraceID is the request trace ID for debugging
	TraceID string `json:"trace_id,omitempty"`
}

// IsSuccess returns true if the response indicates success
func (r *OwnerClanResponse) IsSuccess() bool {
	return r.Code == 0
}

// OwnerClan result codes that need dedicated handling
const (
	OwnerClanCodeInvalidKey      = 1001
	OwnerClanCodeExpiredKey      = 1002
	OwnerClanCodeRateLimited     = 1429
	OwnerClanCodeItemNotFound    = 2404
	OwnerClanCodeItemSoldOut     = 2409
	OwnerClanCodeOrderNotFound   = 3404
	OwnerClanCodeDuplicateOrder  = 3409
	OwnerClanCodeReceiverInvalid = 3422
)

// ---------------------------------------------------------------------------
// Item Related Types
// ---------------------------------------------------------------------------

// OwnerClanItemListResponse is the response for the item search API
type OwnerClanItemListResponse struct {
	OwnerClanResponse
	Data *OwnerClanItemListData `json:"data,omitempty"`
}

// OwnerClanItemListData contains one page of items
type OwnerClanItemListData struct {
	Total int64           `json:"total"`
	Items []OwnerClanItem `json:"items,omitempty"`
}

// OwnerClanItemDetailResponse is the response for the item detail API
type OwnerClanItemDetailResponse struct {
	OwnerClanResponse
	Data *OwnerClanItemDetailData `json:"data,omitempty"`
}

// OwnerClanItemDetailData contains a single item
type OwnerClanItemDetailData struct {
	Item *OwnerClanItem `json:"item,omitempty"`
}

// OwnerClanItem represents a wholesale item on OwnerClan
type OwnerClanItem struct {
	// ItemKey is the unique item identifier
	ItemKey string `json:"item_key"`
	// Name is the item name
	Name string `json:"name"`
	// Content is the item description (HTML)
	Content string `json:"content,omitempty"`
	// CategoryName is the full category path
	CategoryName string `json:"category_name,omitempty"`
	// Price is the wholesale price in KRW
	Price int64 `json:"price"`
	// FixedPrice is the suggested retail price in KRW
	FixedPrice int64 `json:"fixed_price,omitempty"`
	// ShippingFee is the per-order shipping fee in KRW
	ShippingFee int64 `json:"shipping_fee"`
	// Stock is the available quantity
	Stock int `json:"stock"`
	// Status is the item state: available, soldout or discontinued
	Status string `json:"status"`
	// Images contains image URLs hosted by OwnerClan
	Images []string `json:"images,omitempty"`
	// Options contains option variants
	Options []OwnerClanItemOption `json:"options,omitempty"`
	// UpdatedAt is the last modification time (Unix seconds)
	UpdatedAt int64 `json:"updated_at"`
}

// OwnerClanItemOption represents an option variant of an item
type OwnerClanItemOption struct {
	OptionKey  string `json:"option_key"`
	Name       string `json:"name"`
	PriceDelta int64  `json:"price_delta"`
	Stock      int    `json:"stock"`
}

// Item status values
const (
	OwnerClanItemStatusAvailable    = "available"
	OwnerClanItemStatusSoldOut      = "soldout"
	OwnerClanItemStatusDiscontinued = "discontinued"
)

// OwnerClanStockResponse is the response for the item stock API
type OwnerClanStockResponse struct {
	OwnerClanResponse
	Data *OwnerClanStockData `json:"data,omitempty"`
}

// OwnerClanStockData contains the current stock of an item
type OwnerClanStockData struct {
	ItemKey string `json:"item_key"`
	Stock   int    `json:"stock"`
	Status  string `json:"status"`
}

// ---------------------------------------------------------------------------
// Order Related Types
// ---------------------------------------------------------------------------

// OwnerClanOrderResponse is the response for the order creation API
type OwnerClanOrderResponse struct {
	OwnerClanResponse
	Data *OwnerClanOrderData `json:"data,omitempty"`
}

// OwnerClanOrderData contains the created order
type OwnerClanOrderData struct {
	OrderKey  string `json:"order_key"`
	OrderedAt int64  `json:"ordered_at"`
}

// OwnerClanOrderStatusResponse is the response for the order status API
type OwnerClanOrderStatusResponse struct {
	OwnerClanResponse
	Data *OwnerClanOrderStatusData `json:"data,omitempty"`
}

// OwnerClanOrderStatusData contains the shipping state of an order
type OwnerClanOrderStatusData struct {
	OrderKey       string `json:"order_key"`
	Status         string `json:"status"`
	CourierCode    string `json:"courier_code,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	OrderedAt      int64  `json:"ordered_at"`
}
