package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/inventory/models"
	"github.com/stockroom/inventory/pkg/clock"
	"github.com/stockroom/inventory/pkg/logger"
)

type fixture struct {
	svc        *Service
	categories *MockCategoryStore
	products   *MockProductStore
	orders     *MockOrderStore
	clock      *clock.MockClock
}

func newFixture() *fixture {
	categories := &MockCategoryStore{}
	products := &MockProductStore{}
	orders := &MockOrderStore{Products: products}
	mc := clock.NewMockClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	svc := NewService(categories, products, orders, Options{
		CacheTTL: time.Minute,
		Clock:    mc,
		Logger:   logger.Discard(),
	})
	return &fixture{svc: svc, categories: categories, products: products, orders: orders, clock: mc}
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := f.svc.CreateCategory(context.Background(), name, "")
	require.NoError(t, err)
	return c
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUpsertProduct_Validation(t *testing.T) {
	f := newFixture()
	dairy := f.category(t, "Dairy")

	testCases := []struct {
		name    string
		req     UpsertRequest
		wantErr error
	}{
		{name: "empty name", req: UpsertRequest{Name: "   ", Price: price("1"), CategoryID: dairy.ID, Delta: 1}, wantErr: models.ErrEmptyName},
		{name: "negative price", req: UpsertRequest{Name: "Milk", Price: price("-0.01"), CategoryID: dairy.ID, Delta: 1}, wantErr: ErrNegativePrice},
		{name: "zero delta", req: UpsertRequest{Name: "Milk", Price: price("1"), CategoryID: dairy.ID, Delta: 0}, wantErr: ErrInvalidDelta},
		{name: "no category", req: UpsertRequest{Name: "Milk", Price: price("1"), Delta: 1}, wantErr: ErrCategoryRequired},
		{name: "unknown category", req: UpsertRequest{Name: "Milk", Price: price("1"), CategoryID: 99, Delta: 1}, wantErr: models.ErrCategoryNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.svc.UpsertProduct(context.Background(), tc.req)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, f.products.LastInput, "store must not be reached")
		})
	}

	assert.True(t, IsValidation(models.ErrEmptyName))
	assert.False(t, IsValidation(models.ErrCategoryNotFound))
}

func TestUpsertProduct_IncrementsByDelta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dairy := f.category(t, "Dairy")

	res, err := f.svc.UpsertProduct(ctx, UpsertRequest{Name: " Milk ", Price: price("4.50"), CategoryID: dairy.ID, Delta: 20})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Milk", f.products.LastInput.Name, "name is trimmed before reaching the store")

	for delta := 1; delta <= 5; delta++ {
		before := f.products.Products[0].Quantity
		res, err = f.svc.UpsertProduct(ctx, UpsertRequest{Name: "MILK", Price: price("4.50"), CategoryID: dairy.ID, Delta: delta})
		require.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, before+delta, res.Product.Quantity)
	}
	assert.Len(t, f.products.Products, 1)
}

func TestIssueStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dairy := f.category(t, "Dairy")
	res, err := f.svc.UpsertProduct(ctx, UpsertRequest{Name: "Milk", Price: price("4.50"), CategoryID: dairy.ID, Delta: 30})
	require.NoError(t, err)
	milkID := res.Product.ID

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := f.svc.IssueStock(ctx, IssueRequest{ProductID: milkID, Quantity: 0})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.True(t, IsValidation(err))
	})

	t.Run("within stock", func(t *testing.T) {
		out, err := f.svc.IssueStock(ctx, IssueRequest{ProductID: milkID, Quantity: 12})
		require.NoError(t, err)
		assert.Equal(t, 18, out.Product.Quantity)
		assert.Equal(t, "54.00", out.Order.TotalPrice.StringFixed(2))
		assert.True(t, f.clock.Now().Equal(out.Order.CreatedAt), "issued at the service clock")
		assert.Len(t, f.orders.Orders, 1)
	})

	t.Run("beyond stock", func(t *testing.T) {
		out, err := f.svc.IssueStock(ctx, IssueRequest{ProductID: milkID, Quantity: 50})
		assert.Nil(t, out)
		var stockErr *models.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 18, stockErr.Available)
		assert.Equal(t, 18, f.products.Products[0].Quantity)
		assert.Len(t, f.orders.Orders, 1)
	})

	t.Run("store failure", func(t *testing.T) {
		f.orders.IssueErr = errStoreDown
		defer func() { f.orders.IssueErr = nil }()
		_, err := f.svc.IssueStock(ctx, IssueRequest{ProductID: milkID, Quantity: 1})
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestDeleteCategory_Guard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dairy := f.category(t, "Dairy")

	f.categories.DeleteErr = models.ErrCategoryInUse
	err := f.svc.DeleteCategory(ctx, dairy.ID)
	assert.EqualError(t, err, "category still has products")
	assert.Len(t, f.categories.Categories, 1)

	f.categories.DeleteErr = nil
	require.NoError(t, f.svc.DeleteCategory(ctx, dairy.ID))
	assert.Empty(t, f.categories.Categories)
}

func TestCreateCategory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateCategory(ctx, " ", "")
	assert.ErrorIs(t, err, models.ErrEmptyName)

	c, err := f.svc.CreateCategory(ctx, " Dairy ", " milk and cheese ")
	require.NoError(t, err)
	assert.Equal(t, "Dairy", c.Name)
	assert.Equal(t, "milk and cheese", c.Description)

	_, err = f.svc.CreateCategory(ctx, "Dairy", "")
	assert.ErrorIs(t, err, models.ErrCategoryExists)
}

func TestReadsAreCachedUntilWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dairy := f.category(t, "Dairy")

	_, err := f.svc.Products(ctx, models.ProductFilters{})
	require.NoError(t, err)
	_, err = f.svc.Products(ctx, models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.products.ListCalls)

	_, err = f.svc.UpsertProduct(ctx, UpsertRequest{Name: "Milk", Price: price("1"), CategoryID: dairy.ID, Delta: 1})
	require.NoError(t, err)

	products, err := f.svc.Products(ctx, models.ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, products, 1, "write invalidated the cached list")
	assert.Equal(t, 2, f.products.ListCalls)

	f.clock.Advance(2 * time.Minute)
	_, err = f.svc.Products(ctx, models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, f.products.ListCalls, "entry expired")

	_, err = f.svc.Categories(ctx)
	require.NoError(t, err)
	_, err = f.svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.categories.ListCalls)
}

func TestFailedIssueKeepsCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	dairy := f.category(t, "Dairy")
	res, err := f.svc.UpsertProduct(ctx, UpsertRequest{Name: "Milk", Price: price("1"), CategoryID: dairy.ID, Delta: 1})
	require.NoError(t, err)

	_, err = f.svc.Products(ctx, models.ProductFilters{})
	require.NoError(t, err)
	calls := f.products.ListCalls

	_, err = f.svc.IssueStock(ctx, IssueRequest{ProductID: res.Product.ID, Quantity: 5})
	require.Error(t, err)

	_, err = f.svc.Products(ctx, models.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, calls, f.products.ListCalls)
}

func TestLowStock(t *testing.T) {
	f := newFixture()
	f.products.Products = []models.Product{
		{ID: 1, Name: "a", Quantity: 5},
		{ID: 2, Name: "b", Quantity: 15},
		{ID: 3, Name: "c", Quantity: 9},
		{ID: 4, Name: "d", Quantity: 10},
	}

	alerts, err := f.svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, 5, alerts[0].Quantity)
	assert.Equal(t, 9, alerts[1].Quantity)
	assert.Equal(t, DefaultLowStockThreshold, f.svc.Threshold())
}

func TestProductByName(t *testing.T) {
	f := newFixture()
	f.products.Products = []models.Product{{ID: 7, Name: "Milk"}}

	p, err := f.svc.ProductByName(context.Background(), "milk")
	require.NoError(t, err)
	assert.Equal(t, uint(7), p.ID)

	_, err = f.svc.ProductByName(context.Background(), "")
	assert.True(t, errors.Is(err, models.ErrEmptyName))
}
