package wholesaler

import (
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

// DomeggookAdapter implements the WholesaleSource port for Domeggook
type DomeggookAdapter struct {
	config     *DomeggookConfig
	httpClient *http.Client
}

// NewDomeggookAdapter creates a Domeggook adapter
func NewDomeggookAdapter(config *DomeggookConfig) (*DomeggookAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &DomeggookAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// SourceCode returns the wholesaler platform this adapter handles
func (a *DomeggookAdapter) SourceCode() integration.SourceCode {
	return integration.SourceCodeDomeggook
}

// IsEnabled returns true if the source is configured and enabled
func (a *DomeggookAdapter) IsEnabled(_ context.Context) (bool, error) {
	if !a.config.Enabled {
		return false, nil
	}
	return a.config.Validate() == nil, nil
}

// FetchProducts pulls one page of items from Domeggook
func (a *DomeggookAdapter) FetchProducts(ctx context.Context, req integration.ProductPullRequest) (*integration.ProductPullResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("mode", "getItemList")
	params.Set("pg", strconv.Itoa(req.PageNo))
	params.Set("sz", strconv.Itoa(req.PageSize))
	if req.UpdatedSince != nil {
		params.Set("modifyDateFrom", strconv.FormatInt(req.UpdatedSince.Unix(), 10))
	}

	var resp DomeggookItemListResponse
	if err := a.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapDomeggookError(resp.ErrCode, resp.ErrMsg)
	}

	products := make([]integration.SourceProduct, 0, len(resp.List))
	for i := range resp.List {
		products = append(products, a.convertItem(&resp.List[i]))
	}

	var total int64
	if resp.Header != nil {
		total = resp.Header.TotalCount
	}
	hasMore := int64(req.PageNo*req.PageSize) < total
	result := &integration.ProductPullResponse{
		Products:   products,
		TotalCount: total,
		HasMore:    hasMore,
	}
	if hasMore {
		result.NextPageNo = req.PageNo + 1
	}
	return result, nil
}

// GetProduct retrieves a single item by its Domeggook item number
func (a *DomeggookAdapter) GetProduct(ctx context.Context, sourceProductID string) (*integration.SourceProduct, error) {
	params := url.Values{}
	params.Set("mode", "getItemView")
	params.Set("no", sourceProductID)

	var resp DomeggookItemDetailResponse
	if err := a.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapDomeggookError(resp.ErrCode, resp.ErrMsg)
	}
	if resp.Item == nil {
		return nil, fmt.Errorf("%w: %s", integration.ErrSourceProductNotFound, sourceProductID)
	}

	product := a.convertItem(resp.Item)
	return &product, nil
}

// GetStock retrieves the current stock for an item. Domeggook has no
// dedicated stock endpoint, so the item view is used.
func (a *DomeggookAdapter) GetStock(ctx context.Context, sourceProductID string) (int, error) {
	product, err := a.GetProduct(ctx, sourceProductID)
	if err != nil {
		return 0, err
	}
	if product.IsSoldOut {
		return 0, nil
	}
	return product.StockQuantity, nil
}

// PlaceOrder places a dropship order with Domeggook
func (a *DomeggookAdapter) PlaceOrder(ctx context.Context, req integration.SupplierOrderRequest) (*integration.SupplierOrderResult, error) {
	if err := validateSupplierOrderRequest(&req); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("mode", "createOrder")
	params.Set("no", req.SourceProductID)
	params.Set("qty", strconv.Itoa(req.Quantity))
	params.Set("receiverName", req.ReceiverName)
	params.Set("receiverPhone", req.ReceiverPhone)
	params.Set("receiverAddr", req.ReceiverAddress)
	params.Set("receiverZip", req.ReceiverPostalCode)
	if req.OptionID != "" {
		params.Set("optionNo", req.OptionID)
	}
	if req.Memo != "" {
		params.Set("memo", req.Memo)
	}

	var resp DomeggookOrderResponse
	if err := a.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapDomeggookError(resp.ErrCode, resp.ErrMsg)
	}
	if resp.OrderNo == "" {
		return nil, fmt.Errorf("%w: missing order number", integration.ErrSourceInvalidResponse)
	}

	return &integration.SupplierOrderResult{
		SupplierOrderID: resp.OrderNo,
		OrderedAt:       time.Unix(resp.OrderDate, 0),
	}, nil
}

// GetOrderStatus retrieves the shipping state of a placed order
func (a *DomeggookAdapter) GetOrderStatus(ctx context.Context, supplierOrderID string) (*integration.SupplierOrderResult, error) {
	params := url.Values{}
	params.Set("mode", "getOrderView")
	params.Set("orderNo", supplierOrderID)

	var resp DomeggookOrderStatusResponse
	if err := a.doRequest(ctx, params, &resp); err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, mapDomeggookError(resp.ErrCode, resp.ErrMsg)
	}
	if resp.OrderNo == "" {
		return nil, fmt.Errorf("%w: %s", integration.ErrSourceProductNotFound, supplierOrderID)
	}

	return &integration.SupplierOrderResult{
		SupplierOrderID: resp.OrderNo,
		TrackingNumber:  resp.InvoiceNo,
		Courier:         resp.DeliveryCorp,
		OrderedAt:       time.Unix(resp.OrderDate, 0),
	}, nil
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// doRequest sends a GET to the Domeggook API and decodes the JSON response
// into result. The API key, version and output format are added to every
// request.
func (a *DomeggookAdapter) doRequest(ctx context.Context, params url.Values, result any) error {
	params.Set("aid", a.config.APIKey)
	params.Set("ver", a.config.APIVersion)
	params.Set("om", "json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.APIBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("domeggook: create request: %w", err)
	}

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

// convertItem maps a Domeggook item to a SourceProduct
func (a *DomeggookAdapter) convertItem(item *DomeggookItem) integration.SourceProduct {
	options := make([]integration.SourceProductOption, 0, len(item.Options))
	for _, opt := range item.Options {
		options = append(options, integration.SourceProductOption{
			OptionID:   strconv.FormatInt(opt.OptionNo, 10),
			Name:       opt.Name,
			PriceDelta: decimal.NewFromInt(opt.AddPrice),
			Stock:      opt.Qty,
		})
	}

	images := make([]string, 0, len(item.ImageList)+1)
	if item.Thumb != "" {
		images = append(images, item.Thumb)
	}
	images = append(images, item.ImageList...)

	raw, _ := json.Marshal(item)

	return integration.SourceProduct{
		SourceProductID: strconv.FormatInt(item.No, 10),
		SourceCode:      integration.SourceCodeDomeggook,
		Name:            item.Title,
		Description:     item.Content,
		CategoryName:    item.Category,
		CostPrice:       decimal.NewFromInt(item.Price),
		SuggestedPrice:  decimal.NewFromInt(item.ConsumerPrice),
		StockQuantity:   item.Qty,
		ShippingFee:     decimal.NewFromInt(item.DeliveryFee),
		ImageURLs:       images,
		Options:         options,
		IsSoldOut:       item.Status != DomeggookItemStatusOn,
		UpdatedAt:       time.Unix(item.ModifyDate, 0),
		RawData:         string(raw),
	}
}

// mapDomeggookError maps a Domeggook error code to a port error
func mapDomeggookError(code int, message string) error {
	switch code {
	case DomeggookErrInvalidKey, DomeggookErrKeySuspended:
		return fmt.Errorf("%w: %s", integration.ErrSourceAuthFailed, message)
	case DomeggookErrQuotaExceeded:
		return fmt.Errorf("%w: %s", integration.ErrSourceRateLimited, message)
	case DomeggookErrItemNotFound, DomeggookErrOrderNotFound:
		return fmt.Errorf("%w: %s", integration.ErrSourceProductNotFound, message)
	case DomeggookErrItemSoldOut:
		return fmt.Errorf("%w: %s", integration.ErrSourceOutOfStock, message)
	default:
		return fmt.Errorf("%w: code %d: %s", integration.ErrSourceRequestFailed, code, message)
	}
}

// Ensure DomeggookAdapter implements the WholesaleSource port
var _ integration.WholesaleSource = (*DomeggookAdapter)(nil)
