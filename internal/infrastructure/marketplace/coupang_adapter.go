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
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// maxResponseSize limits how much of a marketplace response body is read
const maxResponseSize = 10 * 1024 * 1024

// coupangTimeLayout is the timestamp format in Coupang order payloads
const coupangTimeLayout = "2006-01-02T15:04:05"

// CoupangAdapter implements the MarketplaceChannel port for Coupang
type CoupangAdapter struct {
	config     *CoupangConfig
	httpClient *http.Client
}

// NewCoupangAdapter creates a Coupang adapter
func NewCoupangAdapter(config *CoupangConfig) (*CoupangAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &CoupangAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ChannelCode returns the marketplace this adapter handles
func (a *CoupangAdapter) ChannelCode() integration.ChannelCode {
	return integration.ChannelCodeCoupang
}

// IsEnabled returns true if the channel is configured and enabled
func (a *CoupangAdapter) IsEnabled(_ context.Context) (bool, error) {
	if !a.config.Enabled {
		return false, nil
	}
	return a.config.Validate() == nil, nil
}

// SyncListings pushes listings to Coupang one by one and aggregates the
// per-item outcomes
func (a *CoupangAdapter) SyncListings(ctx context.Context, listings []integration.ListingSync) (*integration.SyncResult, error) {
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

// GetListing retrieves a seller product from Coupang
func (a *CoupangAdapter) GetListing(ctx context.Context, channelProductID string) (*integration.ListingSync, error) {
	path := fmt.Sprintf("/v2/providers/seller_api/apis/api/v1/marketplace/seller-products/%s", channelProductID)

	var resp CoupangProductDetailResponse
	if err := a.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapCoupangError(resp.Code, resp.Message)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: %s", integration.ErrListingNotFound, channelProductID)
	}

	images := make([]string, 0, len(resp.Data.Images))
	for _, img := range resp.Data.Images {
		images = append(images, img.VendorPath)
	}

	return &integration.ListingSync{
		ChannelProductID: strconv.FormatInt(resp.Data.SellerProductID, 10),
		ProductName:      resp.Data.SellerProductName,
		Description:      resp.Data.Description,
		SalePrice:        decimal.NewFromInt(resp.Data.SalePrice),
		ListPrice:        decimal.NewFromInt(resp.Data.OriginalPrice),
		StockQuantity:    resp.Data.MaximumBuyCount,
		IsOnSale:         resp.Data.Saleable,
		ImageURLs:        images,
	}, nil
}

// FetchOrders pulls one page of order sheets from Coupang
func (a *CoupangAdapter) FetchOrders(ctx context.Context, req integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/v2/providers/openapi/apis/api/v4/vendors/%s/ordersheets", a.config.VendorID)

	query := url.Values{}
	query.Set("createdAtFrom", req.StartTime.Format(coupangTimeLayout))
	query.Set("createdAtTo", req.EndTime.Format(coupangTimeLayout))
	query.Set("page", strconv.Itoa(req.PageNo))
	query.Set("maxPerPage", strconv.Itoa(req.PageSize))
	if req.Status != nil {
		query.Set("status", mapToCoupangOrderStatus(*req.Status))
	}

	var resp CoupangOrderListResponse
	if err := a.doRequest(ctx, http.MethodGet, path, query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapCoupangError(resp.Code, resp.Message)
	}

	orders := make([]integration.ChannelOrder, 0, len(resp.Data))
	for i := range resp.Data {
		orders = append(orders, a.convertOrderSheet(&resp.Data[i]))
	}

	hasMore := resp.NextToken != ""
	result := &integration.OrderPullResponse{
		Orders:     orders,
		TotalCount: resp.TotalCount,
		HasMore:    hasMore,
	}
	if hasMore {
		result.NextPageNo = req.PageNo + 1
	}
	return result, nil
}

// ConfirmShipment uploads the invoice number for a shipped order
func (a *CoupangAdapter) ConfirmShipment(ctx context.Context, update integration.ShipmentUpdate) error {
	orderID, err := strconv.ParseInt(update.ChannelOrderID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid order ID %q", integration.ErrChannelRequestFailed, update.ChannelOrderID)
	}
	if update.TrackingNumber == "" {
		return fmt.Errorf("%w: tracking number is required", integration.ErrChannelRequestFailed)
	}

	path := fmt.Sprintf("/v2/providers/openapi/apis/api/v4/vendors/%s/orders/invoices", a.config.VendorID)
	body := CoupangShipmentRequest{
		VendorID:            a.config.VendorID,
		OrderID:             orderID,
		DeliveryCompanyCode: update.Courier,
		InvoiceNumber:       update.TrackingNumber,
	}

	var resp CoupangShipmentResponse
	if err := a.doRequest(ctx, http.MethodPost, path, "", body, &resp); err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return mapCoupangError(resp.Code, resp.Message)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// pushListing creates or updates a single seller product
func (a *CoupangAdapter) pushListing(ctx context.Context, listing *integration.ListingSync) error {
	body := CoupangProductRequest{
		SellerProductName: listing.ProductName,
		VendorID:          a.config.VendorID,
		SalePrice:         listing.SalePrice.IntPart(),
		OriginalPrice:     listing.ListPrice.IntPart(),
		MaximumBuyCount:   listing.StockQuantity,
		Saleable:          listing.IsOnSale,
		Description:       listing.Description,
	}
	for i, img := range listing.ImageURLs {
		imageType := "DETAIL"
		if i == 0 {
			imageType = "REPRESENTATION"
		}
		body.Images = append(body.Images, CoupangImage{
			ImageOrder: i,
			ImageType:  imageType,
			VendorPath: img,
		})
	}

	method := http.MethodPost
	path := "/v2/providers/seller_api/apis/api/v1/marketplace/seller-products"
	if listing.ChannelProductID != "" {
		sellerProductID, err := strconv.ParseInt(listing.ChannelProductID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid channel product ID %q", integration.ErrChannelRequestFailed, listing.ChannelProductID)
		}
		body.SellerProductID = sellerProductID
		method = http.MethodPut
	}

	var resp CoupangProductResponse
	if err := a.doRequest(ctx, method, path, "", body, &resp); err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return mapCoupangError(resp.Code, resp.Message)
	}
	return nil
}

// doRequest sends a signed request to the Coupang API and decodes the
// response into result
func (a *CoupangAdapter) doRequest(ctx context.Context, method, path, query string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("coupang: marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	fullURL := a.config.APIBaseURL + path
	if query != "" {
		fullURL += "?" + query
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("coupang: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json;charset=UTF-8")
	httpReq.Header.Set("Authorization", a.config.Sign(method, path, query, time.Now()))

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrChannelUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", integration.ErrChannelInvalidResponse, err)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", integration.ErrChannelAuthFailed, httpResp.StatusCode)
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return integration.ErrChannelRateLimited
	case httpResp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", integration.ErrChannelUnavailable, httpResp.StatusCode)
	case httpResp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", integration.ErrChannelRequestFailed, httpResp.StatusCode)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: decode response: %v", integration.ErrChannelInvalidResponse, err)
	}
	return nil
}

// convertOrderSheet maps a Coupang order sheet to a ChannelOrder
func (a *CoupangAdapter) convertOrderSheet(sheet *CoupangOrderSheet) integration.ChannelOrder {
	items := make([]integration.ChannelOrderItem, 0, len(sheet.OrderItems))
	for _, item := range sheet.OrderItems {
		items = append(items, integration.ChannelOrderItem{
			ChannelItemID:    strconv.FormatInt(item.VendorItemID, 10),
			ChannelProductID: strconv.FormatInt(item.SellerProductID, 10),
			ProductName:      item.ProductName,
			OptionName:       item.ItemName,
			Quantity:         item.ShippingCount,
			UnitPrice:        decimal.NewFromInt(item.SalesPrice),
			TotalPrice:       decimal.NewFromInt(item.OrderPrice),
		})
	}

	orderedAt, _ := time.Parse(coupangTimeLayout, sheet.OrderedAt)
	var paidAt *time.Time
	if sheet.PaidAt != "" {
		if t, err := time.Parse(coupangTimeLayout, sheet.PaidAt); err == nil {
			paidAt = &t
		}
	}

	address := sheet.Receiver.Addr1
	if sheet.Receiver.Addr2 != "" {
		address += " " + sheet.Receiver.Addr2
	}

	raw, _ := json.Marshal(sheet)

	return integration.ChannelOrder{
		ChannelOrderID:     strconv.FormatInt(sheet.OrderID, 10),
		ChannelCode:        integration.ChannelCodeCoupang,
		Status:             mapCoupangOrderStatus(sheet.Status),
		BuyerName:          sheet.Orderer.Name,
		BuyerPhone:         sheet.Orderer.Phone,
		ReceiverName:       sheet.Receiver.Name,
		ReceiverPhone:      sheet.Receiver.Phone,
		ReceiverAddress:    address,
		ReceiverPostalCode: sheet.Receiver.PostCode,
		TotalAmount:        decimal.NewFromInt(sheet.TotalPaidAmount),
		ShippingFee:        decimal.NewFromInt(sheet.ShippingPrice),
		Currency:           "KRW",
		Items:              items,
		OrderedAt:          orderedAt,
		PaidAt:             paidAt,
		RawData:            string(raw),
	}
}

// mapCoupangOrderStatus maps a Coupang order sheet status to the port status
func mapCoupangOrderStatus(status string) integration.ChannelOrderStatus {
	switch status {
	case CoupangOrderStatusAccept:
		return integration.ChannelOrderStatusPaid
	case CoupangOrderStatusInstruct:
		return integration.ChannelOrderStatusPreparing
	case CoupangOrderStatusDeparture, CoupangOrderStatusDelivering:
		return integration.ChannelOrderStatusShipped
	case CoupangOrderStatusFinalDelivery:
		return integration.ChannelOrderStatusDelivered
	case CoupangOrderStatusCancel:
		return integration.ChannelOrderStatusCancelled
	default:
		return integration.ChannelOrderStatusPaid
	}
}

// mapToCoupangOrderStatus maps the port status to a Coupang filter value
func mapToCoupangOrderStatus(status integration.ChannelOrderStatus) string {
	switch status {
	case integration.ChannelOrderStatusPaid:
		return CoupangOrderStatusAccept
	case integration.ChannelOrderStatusPreparing:
		return CoupangOrderStatusInstruct
	case integration.ChannelOrderStatusShipped:
		return CoupangOrderStatusDelivering
	case integration.ChannelOrderStatusDelivered:
		return CoupangOrderStatusFinalDelivery
	case integration.ChannelOrderStatusCancelled:
		return CoupangOrderStatusCancel
	default:
		return CoupangOrderStatusAccept
	}
}

// mapCoupangError maps a Coupang result code to a port error
func mapCoupangError(code, message string) error {
	switch code {
	case CoupangCodeUnauthorized:
		return fmt.Errorf("%w: %s", integration.ErrChannelAuthFailed, message)
	case CoupangCodeNotFound:
		return fmt.Errorf("%w: %s", integration.ErrListingNotFound, message)
	case CoupangCodeTooManyReqs:
		return fmt.Errorf("%w: %s", integration.ErrChannelRateLimited, message)
	default:
		return fmt.Errorf("%w: code %s: %s", integration.ErrChannelRequestFailed, code, message)
	}
}

// Ensure CoupangAdapter implements the MarketplaceChannel port
var _ integration.MarketplaceChannel = (*CoupangAdapter)(nil)
