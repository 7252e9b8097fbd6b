package wholesaler

// ---------------------------------------------------------------------------
// Common Domeggook API Response Types
// ---------------------------------------------------------------------------

// DomeggookResponse is the base response wrapper for all Domeggook API calls
type DomeggookResponse struct {
	// ErrCode is the error code (0 for success)
	ErrCode int `json:"errCode"`
	// ErrMsg is the error message
	ErrMsg string `json:"errMsg,omitempty"`
}

// IsSuccess returns true if the response indicates success
func (r *DomeggookResponse) IsSuccess() bool {
	return r.ErrCode == 0
}

// Domeggook error codes that need dedicated handling
const (
	DomeggookErrInvalidKey    = 101
	DomeggookErrKeySuspended  = 102
	DomeggookErrQuotaExceeded = 103
	DomeggookErrItemNotFound  = 301
	DomeggookErrItemSoldOut   = 302
	DomeggookErrOrderNotFound = 401
)

// ---------------------------------------------------------------------------
// Item Related Types
// ---------------------------------------------------------------------------

// DomeggookItemListResponse is the response for mode=getItemList
type DomeggookItemListResponse struct {
	DomeggookResponse
	Header *DomeggookListHeader `json:"header,omitempty"`
	List   []DomeggookItem      `json:"list,omitempty"`
}

// DomeggookListHeader carries the paging info of a list response
type DomeggookListHeader struct {
	TotalCount int64 `json:"numberOfItems"`
	Page       int   `json:"currentPage"`
	PageSize   int   `json:"itemsPerPage"`
}

// DomeggookItemDetailResponse is the response for mode=getItemView
type DomeggookItemDetailResponse struct {
	DomeggookResponse
	Item *DomeggookItem `json:"item,omitempty"`
}

// DomeggookItem represents a wholesale item on Domeggook
type DomeggookItem struct {
	// No is the item number
	No int64 `json:"no"`
	// Title is the item title
	Title string `json:"title"`
	// Content is the item description (HTML)
	Content string `json:"content,omitempty"`
	// Category is the full category path
	Category string `json:"category,omitempty"`
	// Price is the wholesale unit price in KRW
	Price int64 `json:"price"`
	// ConsumerPrice is the suggested retail price in KRW
	ConsumerPrice int64 `json:"consumerPrice,omitempty"`
	// DeliveryFee is the per-order shipping fee in KRW
	DeliveryFee int64 `json:"deliveryFee"`
	// Qty is the available quantity
	Qty int `json:"qty"`
	// Status is the selling state: on, soldOut or off
	Status string `json:"status"`
	// Thumb is the main thumbnail URL
	Thumb string `json:"thumb,omitempty"`
	// ImageList contains additional image URLs
	ImageList []string `json:"imageList,omitempty"`
	// Options contains option variants
	Options []DomeggookOption `json:"options,omitempty"`
	// ModifyDate is the last modification time (Unix seconds)
	ModifyDate int64 `json:"modifyDate"`
}

// DomeggookOption represents an option variant of an item
type DomeggookOption struct {
	OptionNo int64  `json:"optionNo"`
	Name     string `json:"name"`
	AddPrice int64  `json:"addPrice"`
	Qty      int    `json:"qty"`
}

// Item status values
const (
	DomeggookItemStatusOn      = "on"
	DomeggookItemStatusSoldOut = "soldOut"
	DomeggookItemStatusOff     = "off"
)

// ---------------------------------------------------------------------------
// Order Related Types
// ---------------------------------------------------------------------------

// DomeggookOrderResponse is the response for mode=createOrder
type DomeggookOrderResponse struct {
	DomeggookResponse
	OrderNo   string `json:"orderNo,omitempty"`
	OrderDate int64  `json:"orderDate,omitempty"`
}

// DomeggookOrderStatusResponse is the response for mode=getOrderView
type DomeggookOrderStatusResponse struct {
	DomeggookResponse
	OrderNo      string `json:"orderNo,omitempty"`
	Status       string `json:"status,omitempty"`
	DeliveryCorp string `json:"deliveryCorp,omitempty"`
	InvoiceNo    string `json:"invoiceNo,omitempty"`
	OrderDate    int64  `json:"orderDate,omitempty"`
}
