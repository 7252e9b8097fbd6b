package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/order"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// fakeOrderStore keeps orders in memory keyed by channel order number
type fakeOrderStore struct {
	orders map[string]*order.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*order.Order)}
}

func orderKey(channel integration.ChannelCode, channelOrderID string) string {
	return channel.String() + "/" + channelOrderID
}

func (r *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderStore) FindByChannelOrder(_ context.Context, channel integration.ChannelCode, channelOrderID string) (*order.Order, error) {
	o, ok := r.orders[orderKey(channel, channelOrderID)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderStore) FindAll(_ context.Context, _ shared.Filter) ([]order.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeOrderStore) FindByStatus(_ context.Context, _ order.OrderStatus, _ shared.Filter) ([]order.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeOrderStore) FindForwardable(_ context.Context, _ int) ([]order.Order, error) {
	return r.byStatus(order.OrderStatusConfirmed), nil
}

func (r *fakeOrderStore) FindInTransit(_ context.Context, _ int) ([]order.Order, error) {
	return r.byStatus(order.OrderStatusSupplierOrdered), nil
}

func (r *fakeOrderStore) byStatus(status order.OrderStatus) []order.Order {
	var out []order.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out
}

func (r *fakeOrderStore) CountByStatus(_ context.Context) (map[order.OrderStatus]int64, error) {
	counts := make(map[order.OrderStatus]int64)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *fakeOrderStore) SalesBetween(_ context.Context, _, _ time.Time) (order.SalesSummary, error) {
	return order.SalesSummary{}, nil
}

func (r *fakeOrderStore) Save(_ context.Context, o *order.Order) error {
	r.orders[orderKey(o.ChannelCode, o.ChannelOrderID)] = o
	return nil
}

func (r *fakeOrderStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeListingStore maps channel product IDs to listings
type fakeListingStore struct {
	byChannelProduct map[string]*integration.ProductListing
}

func newFakeListingStore(listings ...*integration.ProductListing) *fakeListingStore {
	store := &fakeListingStore{byChannelProduct: make(map[string]*integration.ProductListing)}
	for _, l := range listings {
		store.byChannelProduct[l.ChannelCode.String()+"/"+l.ChannelProductID] = l
	}
	return store
}

func (r *fakeListingStore) FindByID(_ context.Context, _ uuid.UUID) (*integration.ProductListing, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeListingStore) FindByProductAndChannel(_ context.Context, _ uuid.UUID, _ integration.ChannelCode) (*integration.ProductListing, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeListingStore) FindByChannelProductID(_ context.Context, channel integration.ChannelCode, channelProductID string) (*integration.ProductListing, error) {
	l, ok := r.byChannelProduct[channel.String()+"/"+channelProductID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

func (r *fakeListingStore) FindByProduct(_ context.Context, _ uuid.UUID) ([]integration.ProductListing, error) {
	return nil, nil
}

func (r *fakeListingStore) FindPendingSync(_ context.Context, _ integration.ChannelCode, _ time.Duration, _ int) ([]integration.ProductListing, error) {
	return nil, nil
}

func (r *fakeListingStore) CountByStatus(_ context.Context, _ integration.ChannelCode) (map[integration.SyncStatus]int64, error) {
	return nil, nil
}

func (r *fakeListingStore) CountSyncEnabled(_ context.Context) (int64, error) { return 0, nil }

func (r *fakeListingStore) Save(_ context.Context, _ *integration.ProductListing) error { return nil }

func (r *fakeListingStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeProductStore keeps products keyed by ID
type fakeProductStore struct {
	byID map[uuid.UUID]*catalog.Product
}

func newFakeProductStore(products ...*catalog.Product) *fakeProductStore {
	store := &fakeProductStore{byID: make(map[uuid.UUID]*catalog.Product)}
	for _, p := range products {
		store.byID[p.ID] = p
	}
	return store
}

func (r *fakeProductStore) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductStore) FindBySource(_ context.Context, _ integration.SourceCode, _ string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *fakeProductStore) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductStore) FindByStatus(_ context.Context, _ catalog.ProductStatus, _ shared.Filter) ([]catalog.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductStore) FindSellable(_ context.Context, _ int) ([]catalog.Product, error) {
	return nil, nil
}

func (r *fakeProductStore) CountByStatus(_ context.Context) (map[catalog.ProductStatus]int64, error) {
	return nil, nil
}

func (r *fakeProductStore) CountSoldOut(_ context.Context) (int64, error) { return 0, nil }

func (r *fakeProductStore) Save(_ context.Context, _ *catalog.Product) error { return nil }

func (r *fakeProductStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

// fakeOrderChannel serves canned channel orders
type fakeOrderChannel struct {
	code   integration.ChannelCode
	orders []integration.ChannelOrder
}

func (c *fakeOrderChannel) ChannelCode() integration.ChannelCode      { return c.code }
func (c *fakeOrderChannel) IsEnabled(context.Context) (bool, error)   { return true, nil }

func (c *fakeOrderChannel) SyncListings(context.Context, []integration.ListingSync) (*integration.SyncResult, error) {
	return nil, integration.ErrChannelRequestFailed
}

func (c *fakeOrderChannel) GetListing(context.Context, string) (*integration.ListingSync, error) {
	return nil, integration.ErrListingNotFound
}

func (c *fakeOrderChannel) FetchOrders(_ context.Context, _ integration.OrderPullRequest) (*integration.OrderPullResponse, error) {
	return &integration.OrderPullResponse{
		Orders:     c.orders,
		TotalCount: int64(len(c.orders)),
	}, nil
}

func (c *fakeOrderChannel) ConfirmShipment(context.Context, integration.ShipmentUpdate) error {
	return nil
}

// fakeWholesaler accepts supplier orders and serves shipping state
type fakeWholesaler struct {
	code     integration.SourceCode
	placed   []integration.SupplierOrderRequest
	placeErr error
	tracking map[string]string
}

func (s *fakeWholesaler) SourceCode() integration.SourceCode        { return s.code }
func (s *fakeWholesaler) IsEnabled(context.Context) (bool, error)   { return true, nil }
func (s *fakeWholesaler) GetStock(context.Context, string) (int, error) { return 0, nil }

func (s *fakeWholesaler) FetchProducts(context.Context, integration.ProductPullRequest) (*integration.ProductPullResponse, error) {
	return &integration.ProductPullResponse{}, nil
}

func (s *fakeWholesaler) GetProduct(context.Context, string) (*integration.SourceProduct, error) {
	return nil, integration.ErrSourceProductNotFound
}

func (s *fakeWholesaler) PlaceOrder(_ context.Context, req integration.SupplierOrderRequest) (*integration.SupplierOrderResult, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	s.placed = append(s.placed, req)
	return &integration.SupplierOrderResult{
		SupplierOrderID: fmt.Sprintf("WS-%d", len(s.placed)),
		OrderedAt:       time.Now(),
	}, nil
}

func (s *fakeWholesaler) GetOrderStatus(_ context.Context, supplierOrderID string) (*integration.SupplierOrderResult, error) {
	tracking := s.tracking[supplierOrderID]
	result := &integration.SupplierOrderResult{SupplierOrderID: supplierOrderID}
	if tracking != "" {
		result.TrackingNumber = tracking
		result.Courier = "CJGLS"
	}
	return result, nil
}

func newPipelineProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProductFromSource(integration.SourceProduct{
		SourceProductID: "OC-1001",
		SourceCode:      integration.SourceCodeOwnerClan,
		Name:            "스테인리스 텀블러 500ml",
		CostPrice:       decimal.NewFromInt(8500),
		ShippingFee:     decimal.NewFromInt(2500),
		StockQuantity:   120,
	})
	require.NoError(t, err)
	require.NoError(t, product.SetSalePrice(decimal.NewFromInt(14300)))
	require.NoError(t, product.Activate())
	product.ClearDomainEvents()
	return product
}

func newChannelListing(t *testing.T, productID uuid.UUID, channelProductID string) *integration.ProductListing {
	t.Helper()
	listing, err := integration.NewProductListing(productID, integration.ChannelCodeCoupang)
	require.NoError(t, err)
	listing.MarkSynced(channelProductID)
	return listing
}

func channelOrder(channelOrderID, channelProductID string) integration.ChannelOrder {
	return integration.ChannelOrder{
		ChannelOrderID:     channelOrderID,
		ChannelCode:        integration.ChannelCodeCoupang,
		Status:             integration.ChannelOrderStatusPaid,
		BuyerName:          "김철수",
		ReceiverName:       "김철수",
		ReceiverPhone:      "010-1234-5678",
		ReceiverAddress:    "서울특별시 강남구 테헤란로 123",
		ReceiverPostalCode: "06234",
		TotalAmount:        decimal.NewFromInt(28600),
		ShippingFee:        decimal.NewFromInt(3000),
		Currency:           "KRW",
		Items: []integration.ChannelOrderItem{{
			ChannelItemID:    "ITEM-1",
			ChannelProductID: channelProductID,
			ProductName:      "스테인리스 텀블러 500ml",
			OptionName:       "실버",
			Quantity:         2,
			UnitPrice:        decimal.NewFromInt(14300),
			TotalPrice:       decimal.NewFromInt(28600),
		}},
		OrderedAt: time.Now(),
	}
}

func TestPullService_IngestsOrders(t *testing.T) {
	product := newPipelineProduct(t)
	listing := newChannelListing(t, product.ID, "CH-9001")
	store := newFakeOrderStore()
	channel := &fakeOrderChannel{
		code:   integration.ChannelCodeCoupang,
		orders: []integration.ChannelOrder{channelOrder("CP-1", "CH-9001")},
	}

	service := NewPullService(store, newFakeListingStore(listing), newFakeProductStore(product),
		map[integration.ChannelCode]integration.MarketplaceChannel{integration.ChannelCodeCoupang: channel},
		nil, time.Hour, 50, zap.NewNop())

	result, err := service.RunChannel(context.Background(), integration.ChannelCodeCoupang)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Ingested)
	assert.Equal(t, 0, result.Failed)

	o, err := store.FindByChannelOrder(context.Background(), integration.ChannelCodeCoupang, "CP-1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusReceived, o.Status)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(28600)))
	assert.True(t, o.TotalCost.Equal(decimal.NewFromInt(17000)))
	assert.True(t, o.ShippingFee.Equal(decimal.NewFromInt(3000)))
	require.Len(t, o.Items, 1)
	assert.Equal(t, product.ID, o.Items[0].ProductID)
	assert.Equal(t, "06234", o.ReceiverZip)
}

func TestPullService_DeduplicatesOnSecondRun(t *testing.T) {
	product := newPipelineProduct(t)
	listing := newChannelListing(t, product.ID, "CH-9001")
	store := newFakeOrderStore()
	channel := &fakeOrderChannel{
		code:   integration.ChannelCodeCoupang,
		orders: []integration.ChannelOrder{channelOrder("CP-1", "CH-9001")},
	}

	service := NewPullService(store, newFakeListingStore(listing), newFakeProductStore(product),
		map[integration.ChannelCode]integration.MarketplaceChannel{integration.ChannelCodeCoupang: channel},
		nil, time.Hour, 50, zap.NewNop())

	_, err := service.RunChannel(context.Background(), integration.ChannelCodeCoupang)
	require.NoError(t, err)
	result, err := service.RunChannel(context.Background(), integration.ChannelCodeCoupang)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Ingested)
	assert.Equal(t, 1, result.Duplicates)
	assert.Len(t, store.orders, 1)
}

func TestPullService_UnmappedListingFailsOrder(t *testing.T) {
	store := newFakeOrderStore()
	channel := &fakeOrderChannel{
		code:   integration.ChannelCodeCoupang,
		orders: []integration.ChannelOrder{channelOrder("CP-1", "CH-UNKNOWN")},
	}

	service := NewPullService(store, newFakeListingStore(), newFakeProductStore(),
		map[integration.ChannelCode]integration.MarketplaceChannel{integration.ChannelCodeCoupang: channel},
		nil, time.Hour, 50, zap.NewNop())

	result, err := service.RunChannel(context.Background(), integration.ChannelCodeCoupang)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Ingested)
	assert.Empty(t, store.orders)
}

func newConfirmedOrder(t *testing.T, productID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(integration.ChannelCodeCoupang, "CP-1",
		time.Now(), "김철수", "김철수", "서울특별시 강남구 테헤란로 123")
	require.NoError(t, err)
	o.SetReceiverContact("010-1234-5678", "06234", "부재시 문앞")
	_, err = o.AddItem(productID, "ITEM-1", "스테인리스 텀블러 500ml", "실버",
		2, decimal.NewFromInt(14300), decimal.NewFromInt(8500))
	require.NoError(t, err)
	require.NoError(t, o.Confirm())
	o.ClearDomainEvents()
	return o
}

func TestForwardService_ForwardOrders(t *testing.T) {
	product := newPipelineProduct(t)
	store := newFakeOrderStore()
	o := newConfirmedOrder(t, product.ID)
	require.NoError(t, store.Save(context.Background(), o))

	wholesaler := &fakeWholesaler{code: integration.SourceCodeOwnerClan}
	service := NewForwardService(store, newFakeProductStore(product),
		map[integration.SourceCode]integration.WholesaleSource{integration.SourceCodeOwnerClan: wholesaler},
		nil, 50, zap.NewNop())

	result, err := service.ForwardOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Eligible)
	assert.Equal(t, 1, result.Forwarded)
	assert.Equal(t, 0, result.Failed)

	forwarded, err := store.FindByChannelOrder(context.Background(), integration.ChannelCodeCoupang, "CP-1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusSupplierOrdered, forwarded.Status)
	assert.Equal(t, integration.SourceCodeOwnerClan, forwarded.SupplierSource)
	assert.Equal(t, "WS-1", forwarded.SupplierOrderID)

	require.Len(t, wholesaler.placed, 1)
	placed := wholesaler.placed[0]
	assert.Equal(t, "OC-1001", placed.SourceProductID)
	assert.Equal(t, 2, placed.Quantity)
	assert.Equal(t, "06234", placed.ReceiverPostalCode)
	assert.Equal(t, "부재시 문앞", placed.Memo)
}

func TestForwardService_OutOfStockLeavesOrderConfirmed(t *testing.T) {
	product := newPipelineProduct(t)
	store := newFakeOrderStore()
	o := newConfirmedOrder(t, product.ID)
	require.NoError(t, store.Save(context.Background(), o))

	wholesaler := &fakeWholesaler{
		code:     integration.SourceCodeOwnerClan,
		placeErr: integration.ErrSourceOutOfStock,
	}
	service := NewForwardService(store, newFakeProductStore(product),
		map[integration.SourceCode]integration.WholesaleSource{integration.SourceCodeOwnerClan: wholesaler},
		nil, 50, zap.NewNop())

	result, err := service.ForwardOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.Forwarded)

	stuck, err := store.FindByChannelOrder(context.Background(), integration.ChannelCodeCoupang, "CP-1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusConfirmed, stuck.Status)
}

func TestForwardService_RefreshTracking(t *testing.T) {
	product := newPipelineProduct(t)
	store := newFakeOrderStore()

	shipped := newConfirmedOrder(t, product.ID)
	require.NoError(t, shipped.MarkSupplierOrdered(integration.SourceCodeOwnerClan, "WS-1"))
	shipped.ClearDomainEvents()
	require.NoError(t, store.Save(context.Background(), shipped))

	wholesaler := &fakeWholesaler{
		code:     integration.SourceCodeOwnerClan,
		tracking: map[string]string{"WS-1": "551234567890"},
	}
	service := NewForwardService(store, newFakeProductStore(product),
		map[integration.SourceCode]integration.WholesaleSource{integration.SourceCodeOwnerClan: wholesaler},
		nil, 50, zap.NewNop())

	result, err := service.RefreshTracking(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 1, result.Shipped)

	o, err := store.FindByChannelOrder(context.Background(), integration.ChannelCodeCoupang, "CP-1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusShipped, o.Status)
	assert.Equal(t, "551234567890", o.TrackingNumber)
	assert.Equal(t, "CJGLS", o.CarrierCode)
}

func TestForwardService_RefreshTracking_NoTrackingYet(t *testing.T) {
	product := newPipelineProduct(t)
	store := newFakeOrderStore()

	waiting := newConfirmedOrder(t, product.ID)
	require.NoError(t, waiting.MarkSupplierOrdered(integration.SourceCodeOwnerClan, "WS-1"))
	waiting.ClearDomainEvents()
	require.NoError(t, store.Save(context.Background(), waiting))

	wholesaler := &fakeWholesaler{code: integration.SourceCodeOwnerClan}
	service := NewForwardService(store, newFakeProductStore(product),
		map[integration.SourceCode]integration.WholesaleSource{integration.SourceCodeOwnerClan: wholesaler},
		nil, 50, zap.NewNop())

	result, err := service.RefreshTracking(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Checked)
	assert.Equal(t, 0, result.Shipped)

	o, err := store.FindByChannelOrder(context.Background(), integration.ChannelCodeCoupang, "CP-1")
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusSupplierOrdered, o.Status)
}
