package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// tokenExpiryMargin refreshes the OAuth token slightly before it expires
const tokenExpiryMargin = time.Minute

// SmartStoreAdapter implements the MarketplaceChannel port for Naver
// SmartStore via the commerce API
type SmartStoreAdapter struct {
	config     *SmartStoreConfig
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewSmartStoreAdapter creates a SmartStore adapter
func NewSmartStoreAdapter(config *SmartStoreConfig) (*SmartStoreAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SmartStoreAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ChannelCode returns the marketplace this adapter handles
func (a *SmartStoreAdapter) ChannelCode() integration.ChannelCode {
	return integration.ChannelCodeSmartStore
}

// IsEnabled returns true if the channel is configured and enabled
func (a *SmartStoreAdapter) IsEnabled(_ context.Context) (bool, error) {
	if !a.config.Enabled {
		return false, nil
	}
	return a.config.Validate() == nil, nil
}

// SyncListings pushes listings to SmartStore one by one and aggregates the
// per-item outcomes
func (a *SmartStoreAdapter) SyncListings(ctx context.Context, listings []integration.ListingSync) (*integration.SyncResult, error) {
	result := &integration.SyncResult{
		TotalCount: len(listings),
		SyncedAt:   time.Now(),
	}

	for i := range listings {
		if err := a.pushListing(ctx, &listings[i]); err != nil {
			result.FailedCount++
			result.FailedItems = append(result.FailedItems, integration.SyncFailure{
				ItemID:       listings[i].LocalProductID.String(),
				ErrorMessage: err.Error(),
			})
			continue
		}
		result.SuccessCount++
	}

	result.Finalize()
	return result, nil
}

// GetListing retrieves a product from SmartStore
func (a *SmartStoreAdapter) GetListing(ctx context.Context, channelProductID string) (*integration.ListingSync, error) {
	path := "/external/v2/products/origin-products/" + channelProductID

	var resp SmartStoreProductDetailResponse
	if err := a.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.OriginProductNo == 0 {
		return nil, fmt.Errorf("%w: %s", integration.ErrListingNotFound, channelProductID)
	}

	var images []string
	if resp.OriginProduct.Images != nil {
		if resp.OriginProduct.Images.RepresentativeImage != nil {
			images = append(images, resp.OriginProduct.Images.RepresentativeImage.URL)
		}
		for _, img := range resp.OriginProduct.Images.OptionalImages {
			images = append(images, img.URL)
		}
	}

	return &integration.ListingSync{
		ChannelProductID: strconv.FormatInt(resp.OriginProductNo, 10),
		ProductName:      resp.OriginProduct.Name,
		Description:      resp.OriginProduct.DetailContent,
		SalePrice:        decimal.NewFromInt(resp.OriginProduct.SalePrice),
		StockQuantity:    resp.OriginProduct.StockQuantity,
		IsOnSale:         resp.OriginProduct.StatusType == SmartStoreStatusSale,
		ImageURLs:        images,
	}, nil
}

// FetchOrders pulls one page of orders from SmartStore
func (a *SmartStoreAdapter) FetchOrders(ctx context.Context, req integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("from", req.StartTime.Format(time.RFC3339))
	query.Set("to", req.EndTime.Format(time.RFC3339))
	query.Set("page", strconv.Itoa(req.PageNo))
	query.Set("size", strconv.Itoa(req.PageSize))
	if req.Status != nil {
		query.Set("productOrderStatus", mapToSmartStoreOrderStatus(*req.Status))
	}

	var resp SmartStoreOrderListResponse
	if err := a.doRequest(ctx, http.MethodGet, "/external/v1/pay-order/seller/product-orders?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &integration.OrderPullResponse{}, nil
	}

	orders := make([]integration.ChannelOrder, 0, len(resp.Data.Orders))
	for i := range resp.Data.Orders {
		orders = append(orders, a.convertOrder(&resp.Data.Orders[i]))
	}

	result := &integration.OrderPullResponse{
		Orders:     orders,
		TotalCount: resp.Data.Count,
		HasMore:    resp.Data.More,
	}
	if resp.Data.More {
		result.NextPageNo = req.PageNo + 1
	}
	return result, nil
}

// ConfirmShipment reports a tracking number back to SmartStore
func (a *SmartStoreAdapter) ConfirmShipment(ctx context.Context, update integration.ShipmentUpdate) error {
	if update.TrackingNumber == "" {
		return fmt.Errorf("%w: tracking number is required", integration.ErrChannelRequestFailed)
	}

	dispatchDate := update.ShippedAt
	if dispatchDate.IsZero() {
		dispatchDate = time.Now()
	}

	body := SmartStoreDispatchRequest{
		DispatchProductOrders: []SmartStoreDispatchOrder{
			{
				ProductOrderID:      update.ChannelOrderID,
				DeliveryMethod:      "DELIVERY",
				DeliveryCompanyCode: update.Courier,
				TrackingNumber:      update.TrackingNumber,
				DispatchDate:        dispatchDate.Format(time.RFC3339),
			},
		},
	}

	var resp SmartStoreDispatchResponse
	if err := a.doRequest(ctx, http.MethodPost, "/external/v1/pay-order/seller/product-orders/dispatch", body, &resp); err != nil {
		return err
	}
	if resp.Data != nil && len(resp.Data.FailProductOrderIDs) > 0 {
		return fmt.Errorf("%w: dispatch rejected for %s",
			integration.ErrChannelRequestFailed, strings.Join(resp.Data.FailProductOrderIDs, ", "))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// pushListing creates or updates a single origin product
func (a *SmartStoreAdapter) pushListing(ctx context.Context, listing *integration.ListingSync) error {
	status := SmartStoreStatusSuspension
	if listing.IsOnSale {
		status = SmartStoreStatusSale
	}
	if listing.StockQuantity <= 0 {
		status = SmartStoreStatusOutOfStock
	}

	origin := SmartStoreOriginProduct{
		Name:          listing.ProductName,
		DetailContent: listing.Description,
		SalePrice:     listing.SalePrice.IntPart(),
		StockQuantity: listing.StockQuantity,
		StatusType:    status,
	}
	if len(listing.ImageURLs) > 0 {
		images := &SmartStoreImages{
			RepresentativeImage: &SmartStoreImage{URL: listing.ImageURLs[0]},
		}
		for _, img := range listing.ImageURLs[1:] {
			images.OptionalImages = append(images.OptionalImages, SmartStoreImage{URL: img})
		}
		origin.Images = images
	}

	method := http.MethodPost
	path := "/external/v2/products"
	if listing.ChannelProductID != "" {
		method = http.MethodPut
		path = "/external/v2/products/origin-products/" + listing.ChannelProductID
	}

	var resp SmartStoreProductResponse
	return a.doRequest(ctx, method, path, SmartStoreProductRequest{OriginProduct: origin}, &resp)
}

// ensureToken fetches a fresh OAuth token when the cached one is missing
// or about to expire
func (a *SmartStoreAdapter) ensureToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Add(tokenExpiryMargin).Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", a.config.ClientID)
	form.Set("client_secret", a.config.ClientSecret)
	form.Set("type", "SELF")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.config.APIBaseURL+"/external/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("smartstore: create token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", integration.ErrChannelUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %v", integration.ErrChannelInvalidResponse, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request status %d", integration.ErrChannelAuthFailed, httpResp.StatusCode)
	}

	var token SmartStoreTokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", integration.ErrChannelInvalidResponse, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", integration.ErrChannelAuthFailed)
	}

	a.accessToken = token.AccessToken
	a.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return a.accessToken, nil
}

// doRequest sends an authenticated request to the commerce API and decodes
// the response into result
func (a *SmartStoreAdapter) doRequest(ctx context.Context, method, path string, body any, result any) error {
	token, err := a.ensureToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("smartstore: marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("smartstore: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrChannelUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", integration.ErrChannelInvalidResponse, err)
	}

	if httpResp.StatusCode >= 400 {
		var apiErr SmartStoreErrorResponse
		_ = json.Unmarshal(respBody, &apiErr)
		return mapSmartStoreError(httpResp.StatusCode, &apiErr)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: decode response: %v", integration.ErrChannelInvalidResponse, err)
	}
	return nil
}

// convertOrder maps a SmartStore order to a ChannelOrder
func (a *SmartStoreAdapter) convertOrder(order *SmartStoreOrder) integration.ChannelOrder {
	items := make([]integration.ChannelOrderItem, 0, len(order.ProductOrderItems))
	for _, item := range order.ProductOrderItems {
		items = append(items, integration.ChannelOrderItem{
			ChannelItemID:    item.ProductOrderID,
			ChannelProductID: item.ProductNo,
			ProductName:      item.ProductName,
			OptionName:       item.ProductOption,
			Quantity:         item.Quantity,
			UnitPrice:        decimal.NewFromInt(item.UnitPrice),
			TotalPrice:       decimal.NewFromInt(item.TotalPrice),
		})
	}

	orderedAt, _ := time.Parse(time.RFC3339, order.OrderDate)
	var paidAt *time.Time
	if order.PaymentDate != "" {
		if t, err := time.Parse(time.RFC3339, order.PaymentDate); err == nil {
			paidAt = &t
		}
	}

	address := order.ShippingAddress.BaseAddress
	if order.ShippingAddress.DetailAddress != "" {
		address += " " + order.ShippingAddress.DetailAddress
	}

	raw, _ := json.Marshal(order)

	return integration.ChannelOrder{
		ChannelOrderID:     order.ProductOrderID,
		ChannelCode:        integration.ChannelCodeSmartStore,
		Status:             mapSmartStoreOrderStatus(order.ProductOrderStatus),
		BuyerName:          order.OrdererName,
		BuyerPhone:         order.OrdererTel,
		ReceiverName:       order.ShippingAddress.Name,
		ReceiverPhone:      order.ShippingAddress.Tel1,
		ReceiverAddress:    address,
		ReceiverPostalCode: order.ShippingAddress.ZipCode,
		TotalAmount:        decimal.NewFromInt(order.TotalPaymentAmount),
		ShippingFee:        decimal.NewFromInt(order.DeliveryFeeAmount),
		Currency:           "KRW",
		Items:              items,
		OrderedAt:          orderedAt,
		PaidAt:             paidAt,
		RawData:            string(raw),
	}
}

// mapSmartStoreOrderStatus maps a SmartStore status to the port status
func mapSmartStoreOrderStatus(status string) integration.ChannelOrderStatus {
	switch status {
	case SmartStoreOrderStatusPayed:
		return integration.ChannelOrderStatusPaid
	case SmartStoreOrderStatusPlaced:
		return integration.ChannelOrderStatusPreparing
	case SmartStoreOrderStatusDispatched:
		return integration.ChannelOrderStatusShipped
	case SmartStoreOrderStatusDelivered, SmartStoreOrderStatusPurchaseDecided:
		return integration.ChannelOrderStatusDelivered
	case SmartStoreOrderStatusCanceled:
		return integration.ChannelOrderStatusCancelled
	default:
		return integration.ChannelOrderStatusPaid
	}
}

// mapToSmartStoreOrderStatus maps the port status to a SmartStore filter
func mapToSmartStoreOrderStatus(status integration.ChannelOrderStatus) string {
	switch status {
	case integration.ChannelOrderStatusPaid:
		return SmartStoreOrderStatusPayed
	case integration.ChannelOrderStatusPreparing:
		return SmartStoreOrderStatusPlaced
	case integration.ChannelOrderStatusShipped:
		return SmartStoreOrderStatusDispatched
	case integration.ChannelOrderStatusDelivered:
		return SmartStoreOrderStatusDelivered
	case integration.ChannelOrderStatusCancelled:
		return SmartStoreOrderStatusCanceled
	default:
		return SmartStoreOrderStatusPayed
	}
}

// mapSmartStoreError maps a commerce API failure to a port error
func mapSmartStoreError(statusCode int, apiErr *SmartStoreErrorResponse) error {
	switch {
	case apiErr.Code == SmartStoreCodeInvalidToken || statusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", integration.ErrChannelAuthFailed, apiErr.Message)
	case apiErr.Code == SmartStoreCodeForbidden || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", integration.ErrChannelAuthFailed, apiErr.Message)
	case apiErr.Code == SmartStoreCodeRateLimited || statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", integration.ErrChannelRateLimited, apiErr.Message)
	case apiErr.Code == SmartStoreCodeProductNotFound || statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", integration.ErrListingNotFound, apiErr.Message)
	case statusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", integration.ErrChannelUnavailable, statusCode, apiErr.Message)
	default:
		return fmt.Errorf("%w: status %d: %s", integration.ErrChannelRequestFailed, statusCode, apiErr.Message)
	}
}

// Ensure SmartStoreAdapter implements the MarketplaceChannel port
var _ integration.MarketplaceChannel = (*SmartStoreAdapter)(nil)
