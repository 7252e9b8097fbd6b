package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/catalog"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySource(ctx context.Context, source integration.SourceCode, sourceProductID string) (*catalog.Product, error) {
	args := m.Called(ctx, source, sourceProductID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindSellable(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountByStatus(ctx context.Context) (map[catalog.ProductStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[catalog.ProductStatus]int64), args.Error(1)
}

func (m *MockProductRepository) CountSoldOut(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPriceHistoryRepository is a mock implementation of catalog.PriceHistoryRepository
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) Save(ctx context.Context, history *catalog.PriceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockPriceHistoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]catalog.PriceHistory, int64, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.PriceHistory), args.Get(1).(int64), args.Error(2)
}

func (m *MockPriceHistoryRepository) FindLatestByProduct(ctx context.Context, productID uuid.UUID) (*catalog.PriceHistory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PriceHistory), args.Error(1)
}

func newServiceProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProductFromSource(integration.SourceProduct{
		SourceProductID: "OC-1001",
		SourceCode:      integration.SourceCodeOwnerClan,
		Name:            "스테인리스 텀블러 500ml",
		CategoryName:    "생활용품",
		CostPrice:       decimal.NewFromInt(8500),
		ShippingFee:     decimal.NewFromInt(2500),
		StockQuantity:   120,
	})
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func newTestService(products *MockProductRepository, history *MockPriceHistoryRepository) *ProductService {
	return NewProductService(products, history, nil, zap.NewNop())
}

func TestProductService_SetSalePrice(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	product := newServiceProduct(t)
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)
	history.On("Save", mock.Anything, mock.MatchedBy(func(h *catalog.PriceHistory) bool {
		return h.Reason == catalog.PriceReasonManual &&
			h.NewSalePrice.Equal(decimal.NewFromInt(12900)) &&
			h.OldSalePrice.IsZero()
	})).Return(nil)

	resp, err := service.SetSalePrice(context.Background(), product.ID, SetSalePriceRequest{
		SalePrice: decimal.NewFromInt(12900),
	})
	require.NoError(t, err)

	assert.True(t, resp.SalePrice.Equal(decimal.NewFromInt(12900)))
	assert.True(t, resp.Margin.Equal(decimal.NewFromInt(4400)))
	products.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestProductService_SetSalePrice_BelowCost(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	product := newServiceProduct(t)
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	_, err := service.SetSalePrice(context.Background(), product.ID, SetSalePriceRequest{
		SalePrice: decimal.NewFromInt(5000),
	})
	assert.ErrorIs(t, err, catalog.ErrSaleBelowCost)
	history.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Reprice_DefaultRule(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	product := newServiceProduct(t)
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)
	history.On("Save", mock.Anything, mock.MatchedBy(func(h *catalog.PriceHistory) bool {
		return h.Reason == catalog.PriceReasonPricingRule
	})).Return(nil)

	resp, err := service.Reprice(context.Background(), product.ID, RepriceRequest{})
	require.NoError(t, err)

	// (8500 + 2500) * 1.3 = 14300, already a multiple of 100
	assert.True(t, resp.SalePrice.Equal(decimal.NewFromInt(14300)),
		"got %s", resp.SalePrice)
	history.AssertExpectations(t)
}

func TestProductService_Reprice_NoChangeRecordsNothing(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	product := newServiceProduct(t)
	require.NoError(t, product.SetSalePrice(decimal.NewFromInt(14300)))
	product.ClearDomainEvents()

	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)

	_, err := service.Reprice(context.Background(), product.ID, RepriceRequest{})
	require.NoError(t, err)
	history.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_List_StatusUsesStatusQuery(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	product := newServiceProduct(t)
	products.On("FindByStatus", mock.Anything, catalog.ProductStatusDraft, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["source_code"] == "OWNERCLAN" && f.Page == 2
	})).Return([]catalog.Product{*product}, int64(21), nil)

	rows, total, err := service.List(context.Background(), ProductListFilter{
		Status:     "draft",
		SourceCode: "OWNERCLAN",
		Page:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "스테인리스 텀블러 500ml", rows[0].Name)
}

func TestProductService_CountByStatus(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	products.On("CountByStatus", mock.Anything).Return(map[catalog.ProductStatus]int64{
		catalog.ProductStatusDraft:  12,
		catalog.ProductStatusActive: 7,
		catalog.ProductStatusPaused: 1,
	}, nil)

	counts, err := service.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(20), counts.Total)
	assert.Equal(t, int64(7), counts.Active)
	assert.Equal(t, int64(0), counts.Delisted)
}

func TestProductService_Delete_RequiresDelisted(t *testing.T) {
	products := new(MockProductRepository)
	history := new(MockPriceHistoryRepository)
	service := newTestService(products, history)

	product := newServiceProduct(t)
	products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	err := service.Delete(context.Background(), product.ID)
	assert.Error(t, err)
	products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	require.NoError(t, product.Delist())
	products.On("Delete", mock.Anything, product.ID).Return(nil)
	assert.NoError(t, service.Delete(context.Background(), product.ID))
}
