package wholesaler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// maxResponseSize limits how much of a wholesaler response body is read
const maxResponseSize = 10 * 1024 * 1024

// OwnerClanAdapter implements the WholesaleSource port for OwnerClan
type OwnerClanAdapter struct {
	config     *OwnerClanConfig
	httpClient *http.Client
}

// NewOwnerClanAdapter creates an OwnerClan adapter
func NewOwnerClanAdapter(config *OwnerClanConfig) (*OwnerClanAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &OwnerClanAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// SourceCode returns the wholesaler platform this adapter handles
func (a *OwnerClanAdapter) SourceCode() integration.SourceCode {
	return integration.SourceCodeOwnerClan
}

// IsEnabled returns true if the source is configured and enabled
func (a *OwnerClanAdapter) IsEnabled(_ context.Context) (bool, error) {
	if !a.config.Enabled {
		return false, nil
	}
	return a.config.Validate() == nil, nil
}

// FetchProducts pulls one page of items from OwnerClan
func (a *OwnerClanAdapter) FetchProducts(ctx context.Context, req integration.ProductPullRequest) (*integration.ProductPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := map[string]any{
		"page": req.PageNo,
		"size": req.PageSize,
	}
	if req.UpdatedSince != nil {
		params["updated_since"] = req.UpdatedSince.Unix()
	}

	var resp OwnerClanItemListResponse
	if err := a.doRequest(ctx, "/v1/items/search", params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapOwnerClanError(resp.Code, resp.Message)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing item list data", integration.ErrSourceInvalidResponse)
	}

	products := make([]integration.SourceProduct, 0, len(resp.Data.Items))
	for i := range resp.Data.Items {
		products = append(products, a.convertItem(&resp.Data.Items[i]))
	}

	hasMore := int64(req.PageNo*req.PageSize) < resp.Data.Total
	result := &integration.ProductPullResponse{
		Products:   products,
		TotalCount: resp.Data.Total,
		HasMore:    hasMore,
	}
	if hasMore {
		result.NextPageNo = req.PageNo + 1
	}
	return result, nil
}

// GetProduct retrieves a single item by its OwnerClan item key
func (a *OwnerClanAdapter) GetProduct(ctx context.Context, sourceProductID string) (*integration.SourceProduct, error) {
	params := map[string]any{"item_key": sourceProductID}

	var resp OwnerClanItemDetailResponse
	if err := a.doRequest(ctx, "/v1/items/detail", params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapOwnerClanError(resp.Code, resp.Message)
	}
	if resp.Data == nil || resp.Data.Item == nil {
		return nil, fmt.Errorf("%w: %s", integration.ErrSourceProductNotFound, sourceProductID)
	}

	product := a.convertItem(resp.Data.Item)
	return &product, nil
}

// GetStock retrieves the current stock for an item
func (a *OwnerClanAdapter) GetStock(ctx context.Context, sourceProductID string) (int, error) {
	params := map[string]any{"item_key": sourceProductID}

	var resp OwnerClanStockResponse
	if err := a.doRequest(ctx, "/v1/items/stock", params, &resp); err != nil {
		return 0, err
	}
	if !resp.IsSuccess() {
		return 0, mapOwnerClanError(resp.Code, resp.Message)
	}
	if resp.Data == nil {
		return 0, fmt.Errorf("%w: missing stock data", integration.ErrSourceInvalidResponse)
	}
	if resp.Data.Status != OwnerClanItemStatusAvailable {
		return 0, nil
	}
	return resp.Data.Stock, nil
}

// PlaceOrder places a dropship order with OwnerClan
func (a *OwnerClanAdapter) PlaceOrder(ctx context.Context, req integration.SupplierOrderRequest) (*integration.SupplierOrderResult, error) {
	if err := validateSupplierOrderRequest(&req); err != nil {
		return nil, err
	}

	params := map[string]any{
		"item_key":             req.SourceProductID,
		"quantity":             req.Quantity,
		"receiver_name":        req.ReceiverName,
		"receiver_phone":       req.ReceiverPhone,
		"receiver_address":     req.ReceiverAddress,
		"receiver_postal_code": req.ReceiverPostalCode,
	}
	if req.OptionID != "" {
		params["option_key"] = req.OptionID
	}
	if req.Memo != "" {
		params["memo"] = req.Memo
	}

	var resp OwnerClanOrderResponse
	if err := a.doRequest(ctx, "/v1/orders", params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapOwnerClanError(resp.Code, resp.Message)
	}
	if resp.Data == nil || resp.Data.OrderKey == "" {
		return nil, fmt.Errorf("%w: missing order key", integration.ErrSourceInvalidResponse)
	}

	return &integration.SupplierOrderResult{
		SupplierOrderID: resp.Data.OrderKey,
		OrderedAt:       time.Unix(resp.Data.OrderedAt, 0),
	}, nil
}

// GetOrderStatus retrieves the shipping state of a placed order
func (a *OwnerClanAdapter) GetOrderStatus(ctx context.Context, supplierOrderID string) (*integration.SupplierOrderResult, error) {
	params := map[string]any{"order_key": supplierOrderID}

	var resp OwnerClanOrderStatusResponse
	if err := a.doRequest(ctx, "/v1/orders/status", params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapOwnerClanError(resp.Code, resp.Message)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing order status data", integration.ErrSourceInvalidResponse)
	}

	return &integration.SupplierOrderResult{
		SupplierOrderID: resp.Data.OrderKey,
		TrackingNumber:  resp.Data.TrackingNumber,
		Courier:         resp.Data.CourierCode,
		OrderedAt:       time.Unix(resp.Data.OrderedAt, 0),
	}, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// doRequest sends a signed JSON POST to the OwnerClan API and decodes the
// response into result
func (a *OwnerClanAdapter) doRequest(ctx context.Context, path string, params map[string]any, result any) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("ownerclan: marshal request params: %w", err)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	sign := a.config.Sign(path, string(body), timestamp)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ownerclan: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", a.config.APIKey)
	httpReq.Header.Set("X-Timestamp", timestamp)
	httpReq.Header.Set("X-Signature", sign)

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrSourceUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", integration.ErrSourceInvalidResponse, err)
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", integration.ErrSourceAuthFailed, httpResp.StatusCode)
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return integration.ErrSourceRateLimited
	case httpResp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", integration.ErrSourceUnavailable, httpResp.StatusCode)
	case httpResp.StatusCode >= 400:
		return fmt.Errorf("%w: status %d", integration.ErrSourceRequestFailed, httpResp.StatusCode)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%w: decode response: %v", integration.ErrSourceInvalidResponse, err)
	}
	return nil
}

// convertItem maps an OwnerClan item to a SourceProduct
func (a *OwnerClanAdapter) convertItem(item *OwnerClanItem) integration.SourceProduct {
	options := make([]integration.SourceProductOption, 0, len(item.Options))
	for _, opt := range item.Options {
		options = append(options, integration.SourceProductOption{
			OptionID:   opt.OptionKey,
			Name:       opt.Name,
			PriceDelta: decimal.NewFromInt(opt.PriceDelta),
			Stock:      opt.Stock,
		})
	}

	raw, _ := json.Marshal(item)

	return integration.SourceProduct{
		SourceProductID: item.ItemKey,
		SourceCode:      integration.SourceCodeOwnerClan,
		Name:            item.Name,
		Description:     item.Content,
		CategoryName:    item.CategoryName,
		CostPrice:       decimal.NewFromInt(item.Price),
		SuggestedPrice:  decimal.NewFromInt(item.FixedPrice),
		StockQuantity:   item.Stock,
		ShippingFee:     decimal.NewFromInt(item.ShippingFee),
		ImageURLs:       item.Images,
		Options:         options,
		IsSoldOut:       item.Status != OwnerClanItemStatusAvailable,
		UpdatedAt:       time.Unix(item.UpdatedAt, 0),
		RawData:         string(raw),
	}
}

// mapOwnerClanError maps an OwnerClan result code to a port error
func mapOwnerClanError(code int, message string) error {
	switch code {
	case OwnerClanCodeInvalidKey, OwnerClanCodeExpiredKey:
		return fmt.Errorf("%w: %s", integration.ErrSourceAuthFailed, message)
	case OwnerClanCodeRateLimited:
		return fmt.Errorf("%w: %s", integration.ErrSourceRateLimited, message)
	case OwnerClanCodeItemNotFound, OwnerClanCodeOrderNotFound:
		return fmt.Errorf("%w: %s", integration.ErrSourceProductNotFound, message)
	case OwnerClanCodeItemSoldOut:
		return fmt.Errorf("%w: %s", integration.ErrSourceOutOfStock, message)
	default:
		return fmt.Errorf("%w: code %d: %s", integration.ErrSourceRequestFailed, code, message)
	}
}

// validateSupplierOrderRequest checks the fields a wholesaler order needs
func validateSupplierOrderRequest(req *integration.SupplierOrderRequest) error {
	if req.SourceProductID == "" {
		return fmt.Errorf("%w: source product ID is required", integration.ErrSourceRequestFailed)
	}
	if req.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", integration.ErrSourceRequestFailed)
	}
	if req.ReceiverName == "" || req.ReceiverPhone == "" || req.ReceiverAddress == "" {
		return fmt.Errorf("%w: receiver name, phone and address are required", integration.ErrSourceRequestFailed)
	}
	return nil
}

// Ensure OwnerClanAdapter implements the WholesaleSource port
var _ integration.WholesaleSource = (*OwnerClanAdapter)(nil)
