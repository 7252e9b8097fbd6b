package marketplace

// ---------------------------------------------------------------------------
// OAuth Types
// ---------------------------------------------------------------------------

// SmartStoreTokenResponse is the response from the OAuth token endpoint
type SmartStoreTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// SmartStoreErrorResponse is returned by the commerce API on failure
type SmartStoreErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SmartStore error codes that need dedicated handling
const (
	SmartStoreCodeInvalidToken    = "GW.AUTHN"
	SmartStoreCodeForbidden       = "GW.AUTHZ"
	SmartStoreCodeRateLimited     = "GW.RATE_LIMIT"
	SmartStoreCodeProductNotFound = "PRODUCT.NOT_FOUND"
)

// ---------------------------------------------------------------------------
// Listing Related Types
// ---------------------------------------------------------------------------

// SmartStoreProductRequest is the payload for product registration and
// update calls
type SmartStoreProductRequest struct {
	OriginProduct SmartStoreOriginProduct `json:"originProduct"`
}

// SmartStoreOriginProduct is the channel-independent product definition
type SmartStoreOriginProduct struct {
	Name          string            `json:"name"`
	DetailContent string            `json:"detailContent,omitempty"`
	SalePrice     int64             `json:"salePrice"`
	StockQuantity int               `json:"stockQuantity"`
	StatusType    string            `json:"statusType"`
	Images        *SmartStoreImages `json:"images,omitempty"`
}

// SmartStoreImages contains the representative and optional extra images
type SmartStoreImages struct {
	RepresentativeImage *SmartStoreImage  `json:"representativeImage,omitempty"`
	OptionalImages      []SmartStoreImage `json:"optionalImages,omitempty"`
}

// SmartStoreImage is a single product image
type SmartStoreImage struct {
	URL string `json:"url"`
}

// Product status types
const (
	SmartStoreStatusSale       = "SALE"
	SmartStoreStatusSuspension = "SUSPENSION"
	SmartStoreStatusOutOfStock = "OUTOFSTOCK"
)

// SmartStoreProductResponse is the response for product registration
type SmartStoreProductResponse struct {
	OriginProductNo  int64 `json:"originProductNo"`
	SmartstoreChannelProductNo int64 `json:"smartstoreChannelProductNo,omitempty"`
}

// SmartStoreProductDetailResponse is the response for the product detail API
type SmartStoreProductDetailResponse struct {
	OriginProductNo int64                   `json:"originProductNo"`
	OriginProduct   SmartStoreOriginProduct `json:"originProduct"`
}

// ---------------------------------------------------------------------------
// Order Related Types
// ---------------------------------------------------------------------------

// SmartStoreOrderListResponse is the response for the changed order list API
type SmartStoreOrderListResponse struct {
	Data *SmartStoreOrderListData `json:"data,omitempty"`
}

// SmartStoreOrderListData contains one page of orders
type SmartStoreOrderListData struct {
	Count  int64             `json:"count"`
	Orders []SmartStoreOrder `json:"orders,omitempty"`
	More   bool              `json:"more"`
}

// SmartStoreOrder represents an order on SmartStore
type SmartStoreOrder struct {
	ProductOrderID   string                  `json:"productOrderId"`
	OrderID          string                  `json:"orderId"`
	ProductOrderStatus string                `json:"productOrderStatus"`
	OrderDate        string                  `json:"orderDate"`
	PaymentDate      string                  `json:"paymentDate,omitempty"`
	OrdererName      string                  `json:"ordererName"`
	OrdererTel       string                  `json:"ordererTel,omitempty"`
	ShippingAddress  SmartStoreShippingAddr  `json:"shippingAddress"`
	TotalPaymentAmount int64                 `json:"totalPaymentAmount"`
	DeliveryFeeAmount  int64                 `json:"deliveryFeeAmount"`
	ProductOrderItems  []SmartStoreOrderItem `json:"productOrderItems,omitempty"`
}

// SmartStoreShippingAddr contains the delivery destination
type SmartStoreShippingAddr struct {
	Name         string `json:"name"`
	Tel1         string `json:"tel1"`
	BaseAddress  string `json:"baseAddress"`
	DetailAddress string `json:"detailedAddress,omitempty"`
	ZipCode      string `json:"zipCode"`
}

// SmartStoreOrderItem represents a line item of an order
type SmartStoreOrderItem struct {
	ProductOrderID string `json:"productOrderId"`
	ProductNo      string `json:"productNo"`
	ProductName    string `json:"productName"`
	ProductOption  string `json:"productOption,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPrice      int64  `json:"unitPrice"`
	TotalPrice     int64  `json:"totalProductAmount"`
}

// SmartStore product order statuses
const (
	SmartStoreOrderStatusPayed           = "PAYED"
	SmartStoreOrderStatusPlaced          = "PLACED"
	SmartStoreOrderStatusDispatched      = "DISPATCHED"
	SmartStoreOrderStatusDelivered       = "DELIVERED"
	SmartStoreOrderStatusPurchaseDecided = "PURCHASE_DECIDED"
	SmartStoreOrderStatusCanceled        = "CANCELED"
)

// SmartStoreDispatchRequest is the payload for the dispatch API
type SmartStoreDispatchRequest struct {
	DispatchProductOrders []SmartStoreDispatchOrder `json:"dispatchProductOrders"`
}

// SmartStoreDispatchOrder is a single dispatch entry
type SmartStoreDispatchOrder struct {
	ProductOrderID    string `json:"productOrderId"`
	DeliveryMethod    string `json:"deliveryMethod"`
	DeliveryCompanyCode string `json:"deliveryCompanyCode"`
	TrackingNumber    string `json:"trackingNumber"`
	DispatchDate      string `json:"dispatchDate"`
}

// SmartStoreDispatchResponse is the response for the dispatch API
type SmartStoreDispatchResponse struct {
	Data *SmartStoreDispatchData `json:"data,omitempty"`
}

// SmartStoreDispatchData carries the per-order dispatch outcomes
type SmartStoreDispatchData struct {
	SuccessProductOrderIDs []string `json:"successProductOrderIds,omitempty"`
	FailProductOrderIDs    []string `json:"failProductOrderIds,omitempty"`
}
