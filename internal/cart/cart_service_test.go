package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fjod/pos_terminal/internal/cache"
	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/fjod/pos_terminal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{carts: map[string]*domain.Cart{}}
}

func (m *mockRepository) GetCart(_ context.Context, registerID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	cart, ok := m.carts[registerID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[c.RegisterID] = c
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, registerID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.carts[registerID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.carts, registerID)
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func laptop() domain.Product {
	return domain.Product{ProductID: 1, ProductName: "Laptop", SKU: "LT-1", UnitPrice: 10000, AvailableStock: 5}
}

func TestGetCart_CacheHit(t *testing.T) {
	cached := &domain.Cart{RegisterID: "reg-1"}
	require.NoError(t, cached.AddItem(laptop()))

	mockRepo := newMockRepository() // repo should NOT be called
	mockC := &mockCache{cart: cached}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Len(t, ret.Lines, 1)
	assert.Equal(t, int64(1), ret.Lines[0].ProductID)
}

func TestGetCart_MissingCart_ReturnsEmptySession(t *testing.T) {
	mockRepo := newMockRepository()
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Equal(t, "reg-1", ret.RegisterID)
	assert.True(t, ret.IsEmpty())
}

func TestGetCart_RepoError(t *testing.T) {
	mockRepo := newMockRepository()
	mockRepo.err = fmt.Errorf("database error")
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "reg-1")
	require.ErrorContains(t, err, "database error")
	assert.Nil(t, ret)
}

func TestGetCart_CacheMiss_SetsCache(t *testing.T) {
	stored := &domain.Cart{RegisterID: "reg-1"}
	require.NoError(t, stored.AddItem(laptop()))
	mockRepo := newMockRepository()
	mockRepo.carts["reg-1"] = stored
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Len(t, ret.Lines, 1)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestAddItem_CreatesSessionAndInvalidatesCache(t *testing.T) {
	mockRepo := newMockRepository()
	mockC := &mockCache{cart: &domain.Cart{RegisterID: "reg-1"}}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.AddItem(context.Background(), "reg-1", laptop())
	require.NoError(t, err)
	require.Len(t, ret.Lines, 1)
	assert.Equal(t, 1, ret.Lines[0].Quantity)
	assert.Equal(t, 10000.0, ret.Totals().GrandTotal)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestAddItem_StockExceeded_LeavesStoredCartAlone(t *testing.T) {
	stored := &domain.Cart{RegisterID: "reg-1"}
	p := domain.Product{ProductID: 2, ProductName: "Mouse", UnitPrice: 500, AvailableStock: 1}
	require.NoError(t, stored.AddItem(p))
	mockRepo := newMockRepository()
	mockRepo.carts["reg-1"] = stored
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.AddItem(context.Background(), "reg-1", p)
	require.ErrorIs(t, err, domain.ErrStockExceeded)
	assert.Nil(t, ret)
	assert.Equal(t, 1, mockRepo.carts["reg-1"].Lines[0].Quantity)
}

func TestUpdateQuantity_RecomputesTotals(t *testing.T) {
	stored := &domain.Cart{RegisterID: "reg-1"}
	require.NoError(t, stored.AddItem(laptop()))
	mockRepo := newMockRepository()
	mockRepo.carts["reg-1"] = stored
	mockC := &mockCache{cart: stored}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.UpdateQuantity(context.Background(), "reg-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, ret.Lines[0].Quantity)
	assert.Equal(t, 30000.0, ret.Totals().GrandTotal)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestUpdateDiscount_OutOfRangeIsSilentNoOp(t *testing.T) {
	stored := &domain.Cart{RegisterID: "reg-1"}
	require.NoError(t, stored.AddItem(laptop()))
	require.NoError(t, stored.UpdateDiscount(1, 20))
	mockRepo := newMockRepository()
	mockRepo.carts["reg-1"] = stored
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.UpdateDiscount(context.Background(), "reg-1", 1, 150)
	require.NoError(t, err)
	assert.Equal(t, 20.0, ret.Lines[0].DiscountPct, "previous discount must survive")
}

func TestRemoveItem(t *testing.T) {
	stored := &domain.Cart{RegisterID: "reg-1"}
	require.NoError(t, stored.AddItem(laptop()))
	mockRepo := newMockRepository()
	mockRepo.carts["reg-1"] = stored
	mockC := &mockCache{}

	sut := NewService(mockRepo, mockC)
	ret, err := sut.RemoveItem(context.Background(), "reg-1", 1)
	require.NoError(t, err)
	assert.True(t, ret.IsEmpty())
}

func TestClearCart(t *testing.T) {
	stored := &domain.Cart{RegisterID: "reg-1"}
	require.NoError(t, stored.AddItem(laptop()))
	mockRepo := newMockRepository()
	mockRepo.carts["reg-1"] = stored
	mockC := &mockCache{cart: stored}

	sut := NewService(mockRepo, mockC)
	require.NoError(t, sut.ClearCart(context.Background(), "reg-1"))
	assert.Empty(t, mockRepo.carts)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")

	// clearing an already-empty session is fine
	require.NoError(t, sut.ClearCart(context.Background(), "reg-1"))
}
