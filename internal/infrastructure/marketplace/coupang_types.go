package marketplace

// ---------------------------------------------------------------------------
// Common Coupang API Response Types
// ---------------------------------------------------------------------------

// CoupangResponse is the base response wrapper for all Coupang API calls
type CoupangResponse struct {
	// Code is the result code ("SUCCESS" on success)
	Code string `json:"code"`
	// Message is the result message
	Message string `json:"message,omitempty"`
}

// IsSuccess returns true if the response indicates success
func (r *CoupangResponse) IsSuccess() bool {
	return r.Code == CoupangCodeSuccess
}

// Coupang result codes
const (
	CoupangCodeSuccess      = "SUCCESS"
	CoupangCodeUnauthorized = "UNAUTHORIZED"
	CoupangCodeNotFound     = "NOT_FOUND"
	CoupangCodeTooManyReqs  = "TOO_MANY_REQUESTS"
)

// ---------------------------------------------------------------------------
// Listing Related Types
// ---------------------------------------------------------------------------

// CoupangProductResponse is the response for seller product registration
// and update calls
type CoupangProductResponse struct {
	CoupangResponse
	Data *CoupangProductData `json:"data,omitempty"`
}

// CoupangProductData contains the registered product identifier
type CoupangProductData struct {
	SellerProductID int64 `json:"sellerProductId"`
}

// CoupangProductDetailResponse is the response for the product detail API
type CoupangProductDetailResponse struct {
	CoupangResponse
	Data *CoupangProduct `json:"data,omitempty"`
}

// CoupangProduct represents a seller product on Coupang
type CoupangProduct struct {
	SellerProductID   int64  `json:"sellerProductId"`
	SellerProductName string `json:"sellerProductName"`
	StatusName        string `json:"statusName,omitempty"`
	SalePrice         int64  `json:"salePrice"`
	OriginalPrice     int64  `json:"originalPrice,omitempty"`
	MaximumBuyCount   int    `json:"maximumBuyCount"`
	Saleable          bool   `json:"saleable"`
	Images            []CoupangImage `json:"images,omitempty"`
	Description       string `json:"description,omitempty"`
}

// CoupangImage represents a product image
type CoupangImage struct {
	ImageOrder int    `json:"imageOrder"`
	ImageType  string `json:"imageType"`
	VendorPath string `json:"vendorPath"`
}

// CoupangProductRequest is the payload for registering or updating a
// seller product
type CoupangProductRequest struct {
	SellerProductID   int64          `json:"sellerProductId,omitempty"`
	SellerProductName string         `json:"sellerProductName"`
	VendorID          string         `json:"vendorId"`
	SalePrice         int64          `json:"salePrice"`
	OriginalPrice     int64          `json:"originalPrice,omitempty"`
	MaximumBuyCount   int            `json:"maximumBuyCount"`
	Saleable          bool           `json:"saleable"`
	Images            []CoupangImage `json:"images,omitempty"`
	Description       string         `json:"description,omitempty"`
}

// ---------------------------------------------------------------------------
// Order Related Types
// ---------------------------------------------------------------------------

// CoupangOrderListResponse is the response for the ordersheet list API
type CoupangOrderListResponse struct {
	CoupangResponse
	Data       []CoupangOrderSheet `json:"data,omitempty"`
	NextToken  string              `json:"nextToken,omitempty"`
	TotalCount int64               `json:"totalCount,omitempty"`
}

// CoupangOrderSheet represents an order sheet on Coupang
type CoupangOrderSheet struct {
	OrderID         int64               `json:"orderId"`
	Status          string              `json:"status"`
	OrderedAt       string              `json:"orderedAt"`
	PaidAt          string              `json:"paidAt,omitempty"`
	Orderer         CoupangOrderer      `json:"orderer"`
	Receiver        CoupangReceiver     `json:"receiver"`
	OrderItems      []CoupangOrderItem  `json:"orderItems,omitempty"`
	ShippingPrice   int64               `json:"shippingPrice"`
	TotalPaidAmount int64               `json:"totalPaidAmount"`
}

// CoupangOrderer contains the buyer info of an order sheet
type CoupangOrderer struct {
	Name  string `json:"name"`
	Phone string `json:"safeNumber,omitempty"`
}

// CoupangReceiver contains the receiver info of an order sheet
type CoupangReceiver struct {
	Name     string `json:"name"`
	Phone    string `json:"safeNumber,omitempty"`
	Addr1    string `json:"addr1"`
	Addr2    string `json:"addr2,omitempty"`
	PostCode string `json:"postCode"`
}

// CoupangOrderItem represents a line item in an order sheet
type CoupangOrderItem struct {
	VendorItemID   int64  `json:"vendorItemId"`
	SellerProductID int64 `json:"sellerProductId"`
	ProductName    string `json:"sellerProductName"`
	ItemName       string `json:"sellerProductItemName,omitempty"`
	ShippingCount  int    `json:"shippingCount"`
	SalesPrice     int64  `json:"salesPrice"`
	OrderPrice     int64  `json:"orderPrice"`
}

// Coupang order sheet statuses
const (
	CoupangOrderStatusAccept        = "ACCEPT"
	CoupangOrderStatusInstruct      = "INSTRUCT"
	CoupangOrderStatusDeparture     = "DEPARTURE"
	CoupangOrderStatusDelivering    = "DELIVERING"
	CoupangOrderStatusFinalDelivery = "FINAL_DELIVERY"
	CoupangOrderStatusCancel        = "CANCEL"
)

// CoupangShipmentRequest is the payload for the invoice upload API
type CoupangShipmentRequest struct {
	VendorID          string `json:"vendorId"`
	OrderID           int64  `json:"orderId"`
	DeliveryCompanyCode string `json:"deliveryCompanyCode"`
	InvoiceNumber     string `json:"invoiceNumber"`
}

// CoupangShipmentResponse is the response for the invoice upload API
type CoupangShipmentResponse struct {
	CoupangResponse
}
