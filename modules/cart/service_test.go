package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/storefront/domain/cart"
	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/modules/store"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any)         {}
func (m *mockLogger) Info(_ string, _ ...any)          {}
func (m *mockLogger) Warn(_ string, _ ...any)          {}
func (m *mockLogger) Error(_ string, _ ...any)         {}
func (m *mockLogger) With(_ ...any) types.Logger       { return m }
func (m *mockLogger) WithModule(_ string) types.Logger { return m }
func (m *mockLogger) WithError(_ error) types.Logger   { return m }

var (
	phone  = product.Product{ID: "p1", Name: "Phone", Price: "10,50", Image: "https://img/p1.png"}
	tablet = product.Product{ID: "p2", Name: "Tablet", Price: "bad", Image: "https://img/p2.png"}
)

func setupService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:", logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Products().ReplaceAll(context.Background(), []product.Product{phone, tablet}))
	return NewService(s.Cart(), s.Products(), nil, &mockLogger{}), s
}

func TestService_AddTwice(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, phone)
	require.NoError(t, err)
	item, err := svc.Add(ctx, phone)
	require.NoError(t, err)

	assert.Equal(t, 2, item.Quantity)
	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.Item{ProductID: "p1", Name: "Phone", Price: "10,50", Image: "https://img/p1.png", Quantity: 2}, items[0])
}

func TestService_AddByID(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	item, err := svc.AddByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Tablet", item.Name)

	_, err = svc.AddByID(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestService_SetQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     []domain.Item
	}{
		{"positive updates quantity only", 4, []domain.Item{{ProductID: "p1", Name: "Phone", Price: "10,50", Image: "https://img/p1.png", Quantity: 4}}},
		{"zero removes", 0, []domain.Item{}},
		{"negative removes", -3, []domain.Item{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := setupService(t)
			ctx := context.Background()
			_, err := svc.Add(ctx, phone)
			require.NoError(t, err)

			require.NoError(t, svc.SetQuantity(ctx, "p1", tc.quantity))

			items, err := svc.List(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, items)
		})
	}
}

func TestService_SetQuantityEqualsRemove(t *testing.T) {
	ctx := context.Background()

	viaSet, _ := setupService(t)
	_, _ = viaSet.Add(ctx, phone)
	_, _ = viaSet.Add(ctx, tablet)
	require.NoError(t, viaSet.SetQuantity(ctx, "p1", 0))

	viaRemove, _ := setupService(t)
	_, _ = viaRemove.Add(ctx, phone)
	_, _ = viaRemove.Add(ctx, tablet)
	require.NoError(t, viaRemove.Remove(ctx, "p1"))

	a, err := viaSet.List(ctx)
	require.NoError(t, err)
	b, err := viaRemove.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestService_RemoveAbsentIsNoop(t *testing.T) {
	svc, _ := setupService(t)
	assert.NoError(t, svc.Remove(context.Background(), "ghost"))
}

func TestService_IncrementDecrement(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, phone)

	item, err := svc.Increment(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)

	item, err = svc.Decrement(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 1, item.Quantity)

	item, err = svc.Decrement(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, item)

	items, _ := svc.List(ctx)
	assert.Empty(t, items)

	item, err = svc.Increment(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestService_ClearIsIdempotent(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.Clear(ctx))
	require.NoError(t, svc.Clear(ctx))

	_, _ = svc.Add(ctx, phone)
	require.NoError(t, svc.Clear(ctx))
	items, _ := svc.List(ctx)
	assert.Empty(t, items)
}

func TestService_Items(t *testing.T) {
	svc, _ := setupService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.Items(ctx)
	first := <-ch
	require.True(t, first.IsSuccess())
	assert.Empty(t, first.Data)

	_, err := svc.Add(ctx, phone)
	require.NoError(t, err)

	select {
	case r := <-ch:
		require.True(t, r.IsSuccess())
		require.Len(t, r.Data, 1)
		assert.Equal(t, "p1", r.Data[0].ProductID)
	case <-time.After(2 * time.Second):
		t.Fatal("no emission after add")
	}
}

func TestSummarize(t *testing.T) {
	items := []domain.Item{
		{ProductID: "a", Price: "10,50", Quantity: 2},
		{ProductID: "b", Price: "bad", Quantity: 3},
	}

	s := Summarize(items)

	assert.Equal(t, 2, s.Lines)
	assert.Equal(t, 5, s.Quantity)
	assert.Equal(t, "21.00", s.Total.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Lines)
	assert.True(t, s.Total.IsZero())
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot(nil)
	assert.NotNil(t, snap.Items)
	assert.Equal(t, "0.00", snap.Total)

	snap = NewSnapshot([]domain.Item{{ProductID: "a", Price: "0.1", Quantity: 3}})
	assert.Equal(t, "0.30", snap.Total)
	assert.Equal(t, 3, snap.Quantity)
}
