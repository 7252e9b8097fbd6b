package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

func TestSmartStoreConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		config := &SmartStoreConfig{ClientID: "cid", ClientSecret: "cs"}
		require.NoError(t, config.Validate())
		assert.Equal(t, SmartStoreProductionAPIURL, config.APIBaseURL)
	})

	t.Run("missing client ID", func(t *testing.T) {
		config := &SmartStoreConfig{ClientSecret: "cs"}
		assert.ErrorIs(t, config.Validate(), ErrSmartStoreConfigMissingClientID)
	})

	t.Run("missing client secret", func(t *testing.T) {
		config := &SmartStoreConfig{ClientID: "cid"}
		assert.ErrorIs(t, config.Validate(), ErrSmartStoreConfigMissingClientSecret)
	})
}

// newSmartStoreTestAdapter wires a test server that serves the OAuth token
// endpoint and delegates everything else to handler
func newSmartStoreTestAdapter(t *testing.T, handler http.HandlerFunc) (*SmartStoreAdapter, *httptest.Server, *int) {
	t.Helper()

	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/external/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "test_cid", r.Form.Get("client_id"))

		json.NewEncoder(w).Encode(SmartStoreTokenResponse{
			AccessToken: "test_token",
			TokenType:   "Bearer",
			ExpiresIn:   10800,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test_token", r.Header.Get("Authorization"))
		handler(w, r)
	})
	server := httptest.NewServer(mux)

	config := NewSmartStoreConfig("test_cid", "test_cs")
	config.APIBaseURL = server.URL
	adapter, err := NewSmartStoreAdapter(config)
	require.NoError(t, err)
	return adapter, server, &tokenCalls
}

func TestSmartStoreAdapter_TokenReuse(t *testing.T) {
	adapter, server, tokenCalls := newSmartStoreTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SmartStoreProductDetailResponse{
			OriginProductNo: 1,
			OriginProduct:   SmartStoreOriginProduct{Name: "x", StatusType: SmartStoreStatusSale},
		})
	})
	defer server.Close()

	_, err := adapter.GetListing(context.Background(), "1")
	require.NoError(t, err)
	_, err = adapter.GetListing(context.Background(), "1")
	require.NoError(t, err)

	// The cached token is reused across calls
	assert.Equal(t, 1, *tokenCalls)
}

func TestSmartStoreAdapter_SyncListings(t *testing.T) {
	productID := uuid.New()

	t.Run("create and update", func(t *testing.T) {
		var requests []string
		adapter, server, _ := newSmartStoreTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.Method+" "+r.URL.Path)

			var req SmartStoreProductRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.OriginProduct.Name)

			json.NewEncoder(w).Encode(SmartStoreProductResponse{OriginProductNo: 5001})
		})
		defer server.Close()

		result, err := adapter.SyncListings(context.Background(), []integration.ListingSync{
			{
				LocalProductID: productID,
				ProductName:    "무선 미니 가습기",
				SalePrice:      decimal.NewFromInt(25900),
				StockQuantity:  50,
				IsOnSale:       true,
				ImageURLs:      []string{"https://cdn.example.com/h1.jpg", "https://cdn.example.com/h2.jpg"},
			},
			{
				LocalProductID:   uuid.New(),
				ChannelProductID: "5002",
				ProductName:      "차량용 핸드폰 거치대",
				SalePrice:        decimal.NewFromInt(12900),
				StockQuantity:    0,
				IsOnSale:         true,
			},
		})
		require.NoError(t, err)

		assert.Equal(t, integration.SyncStatusSuccess, result.Status)
		assert.Equal(t, []string{
			"POST /external/v2/products",
			"PUT /external/v2/products/origin-products/5002",
		}, requests)
	})

	t.Run("auth failure marks items failed", func(t *testing.T) {
		adapter, server, _ := newSmartStoreTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(SmartStoreErrorResponse{Code: SmartStoreCodeInvalidToken, Message: "token expired"})
		})
		defer server.Close()

		result, err := adapter.SyncListings(context.Background(), []integration.ListingSync{
			{LocalProductID: productID, ProductName: "a", SalePrice: decimal.NewFromInt(1000), StockQuantity: 1, IsOnSale: true},
		})
		require.NoError(t, err)
		assert.Equal(t, integration.SyncStatusFailed, result.Status)
		require.Len(t, result.FailedItems, 1)
		assert.Contains(t, result.FailedItems[0].ErrorMessage, "token expired")
	})
}

func TestSmartStoreAdapter_FetchOrders(t *testing.T) {
	adapter, server, _ := newSmartStoreTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/external/v1/pay-order/seller/product-orders", r.URL.Path)

		json.NewEncoder(w).Encode(SmartStoreOrderListResponse{
			Data: &SmartStoreOrderListData{
				Count: 1,
				More:  false,
				Orders: []SmartStoreOrder{
					{
						ProductOrderID:     "2026011512345671",
						OrderID:            "2026011512345",
						ProductOrderStatus: SmartStoreOrderStatusPayed,
						OrderDate:          "2026-01-15T18:30:00+09:00",
						PaymentDate:        "2026-01-15T18:31:05+09:00",
						OrdererName:        "최구매",
						OrdererTel:         "010-2222-3333",
						ShippingAddress: SmartStoreShippingAddr{
							Name:          "최구매",
							Tel1:          "010-2222-3333",
							BaseAddress:   "경기도 성남시 분당구 판교로 235",
							DetailAddress: "B동 402호",
							ZipCode:       "13494",
						},
						TotalPaymentAmount: 28400,
						DeliveryFeeAmount:  2500,
						ProductOrderItems: []SmartStoreOrderItem{
							{
								ProductOrderID: "2026011512345671",
								ProductNo:      "5001",
								ProductName:    "무선 미니 가습기",
								ProductOption:  "화이트",
								Quantity:       1,
								UnitPrice:      25900,
								TotalPrice:     25900,
							},
						},
					},
				},
			},
		})
	})
	defer server.Close()

	resp, err := adapter.FetchOrders(context.Background(), integration.OrderPullRequest{
		ChannelCode: integration.ChannelCodeSmartStore,
		StartTime:   time.Now().AddDate(0, 0, -1),
		EndTime:     time.Now(),
		PageNo:      1,
		PageSize:    50,
	})
	require.NoError(t, err)
	assert.False(t, resp.HasMore)
	require.Len(t, resp.Orders, 1)

	order := resp.Orders[0]
	assert.Equal(t, "2026011512345671", order.ChannelOrderID)
	assert.Equal(t, integration.ChannelCodeSmartStore, order.ChannelCode)
	assert.Equal(t, integration.ChannelOrderStatusPaid, order.Status)
	assert.Equal(t, "경기도 성남시 분당구 판교로 235 B동 402호", order.ReceiverAddress)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(28400)))
	require.NotNil(t, order.PaidAt)
}

func TestSmartStoreAdapter_ConfirmShipment(t *testing.T) {
	t.Run("successful dispatch", func(t *testing.T) {
		adapter, server, _ := newSmartStoreTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/external/v1/pay-order/seller/product-orders/dispatch", r.URL.Path)

			var req SmartStoreDispatchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.DispatchProductOrders, 1)
			assert.Equal(t, "509988776655", req.DispatchProductOrders[0].TrackingNumber)

			json.NewEncoder(w).Encode(SmartStoreDispatchResponse{
				Data: &SmartStoreDispatchData{
					SuccessProductOrderIDs: []string{"2026011512345671"},
				},
			})
		})
		defer server.Close()

		err := adapter.ConfirmShipment(context.Background(), integration.ShipmentUpdate{
			ChannelOrderID: "2026011512345671",
			TrackingNumber: "509988776655",
			Courier:        "HANJIN",
			ShippedAt:      time.Now(),
		})
		assert.NoError(t, err)
	})

	t.Run("rejected dispatch", func(t *testing.T) {
		adapter, server, _ := newSmartStoreTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(SmartStoreDispatchResponse{
				Data: &SmartStoreDispatchData{
					FailProductOrderIDs: []string{"2026011512345671"},
				},
			})
		})
		defer server.Close()

		err := adapter.ConfirmShipment(context.Background(), integration.ShipmentUpdate{
			ChannelOrderID: "2026011512345671",
			TrackingNumber: "509988776655",
		})
		assert.ErrorIs(t, err, integration.ErrChannelRequestFailed)
	})
}

func TestMapSmartStoreOrderStatus(t *testing.T) {
	assert.Equal(t, integration.ChannelOrderStatusPaid, mapSmartStoreOrderStatus(SmartStoreOrderStatusPayed))
	assert.Equal(t, integration.ChannelOrderStatusPreparing, mapSmartStoreOrderStatus(SmartStoreOrderStatusPlaced))
	assert.Equal(t, integration.ChannelOrderStatusShipped, mapSmartStoreOrderStatus(SmartStoreOrderStatusDispatched))
	assert.Equal(t, integration.ChannelOrderStatusDelivered, mapSmartStoreOrderStatus(SmartStoreOrderStatusDelivered))
	assert.Equal(t, integration.ChannelOrderStatusDelivered, mapSmartStoreOrderStatus(SmartStoreOrderStatusPurchaseDecided))
	assert.Equal(t, integration.ChannelOrderStatusCancelled, mapSmartStoreOrderStatus(SmartStoreOrderStatusCanceled))
}
