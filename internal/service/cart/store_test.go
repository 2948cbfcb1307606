package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSlot struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newMemSlot() *memSlot {
	return &memSlot{data: map[string][]byte{}}
}

func (m *memSlot) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *memSlot) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func product(id int64, price int64) domain.Product {
	return domain.Product{ID: id, Name: "Product", Price: decimal.NewFromInt(price), Stock: 100, Active: true, ImageURL: "img.png"}
}

func TestStore_AddSameProductTwice(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newMemSlot(), "cart_state", zerolog.Nop())

	store.AddItem(ctx, product(1, 10000), 2)
	store.AddItem(ctx, product(1, 10000), 1)

	lines := store.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, store.TotalItems())
	assert.True(t, store.TotalPrice().Equal(decimal.NewFromInt(30000)), "got %s", store.TotalPrice())
}

func TestStore_AddDefaultsQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, "cart_state", zerolog.Nop())

	store.AddItem(ctx, product(4, 1), 0)

	got, ok := store.Line(4)
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, "img.png", got.Image)
}

func TestStore_TotalsFollowEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newMemSlot(), "cart_state", zerolog.Nop())

	store.AddItem(ctx, product(1, 1500), 2)
	assert.True(t, store.TotalPrice().Equal(decimal.NewFromInt(3000)))

	store.AddItem(ctx, product(2, 250), 4)
	assert.True(t, store.TotalPrice().Equal(decimal.NewFromInt(4000)))

	store.SetQuantity(ctx, 1, 0)
	assert.True(t, store.TotalPrice().Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, 5, store.TotalItems())

	store.RemoveItem(ctx, 2)
	assert.True(t, store.TotalPrice().Equal(decimal.NewFromInt(1500)))

	store.Clear(ctx)
	assert.True(t, store.TotalPrice().IsZero())
	assert.True(t, store.IsEmpty())
}

func TestStore_PersistsEveryMutationAndRestores(t *testing.T) {
	ctx := context.Background()
	slot := newMemSlot()
	store := NewStore(ctx, slot, "cart_state", zerolog.Nop())

	store.AddItem(ctx, product(1, 10000), 2)
	store.AddItem(ctx, product(2, 990), 1)
	store.SetQuantity(ctx, 2, 3)
	store.RemoveItem(ctx, 42)
	assert.Equal(t, 4, slot.puts)

	restored := NewStore(ctx, slot, "cart_state", zerolog.Nop())
	assert.Equal(t, store.TotalItems(), restored.TotalItems())
	assert.True(t, store.TotalPrice().Equal(restored.TotalPrice()))
	require.Len(t, restored.Lines(), 2)
	assert.Equal(t, int64(1), restored.Lines()[0].ID)
}

func TestStore_CorruptedSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, blob := range map[string]string{
		"not json":       "{{{",
		"wrong shape":    `{"items":"nope"}`,
		"duplicate id":   `{"items":[{"id":1,"title":"a","price":"1","qty":1},{"id":1,"title":"a","price":"1","qty":2}]}`,
		"zero quantity":  `{"items":[{"id":1,"title":"a","price":"1","qty":0}]}`,
		"negative price": `{"items":[{"id":1,"title":"a","price":"-5","qty":1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			slot := newMemSlot()
			slot.data["cart_state"] = []byte(blob)

			store := NewStore(ctx, slot, "cart_state", zerolog.Nop())

			assert.True(t, store.IsEmpty())
			assert.Equal(t, 0, store.TotalItems())
		})
	}
}

func TestStore_SlotErrorsAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	slot := newMemSlot()
	slot.getErr = errors.New("disk on fire")
	store := NewStore(ctx, slot, "cart_state", zerolog.Nop())
	assert.True(t, store.IsEmpty())

	slot.putErr = errors.New("disk full")
	store.AddItem(ctx, product(1, 10), 1)
	assert.Equal(t, 1, store.TotalItems())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, newMemSlot(), "cart_state", zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(ctx, product(1, 10), 1)
		}()
	}
	wg.Wait()

	require.Len(t, store.Lines(), 1)
	assert.Equal(t, 50, store.TotalItems())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := domain.CartState{Items: []domain.CartLine{
		{ID: 1, Title: "Mug", UnitPrice: decimal.RequireFromString("1990.5"), Image: "m.png", Quantity: 2},
		{ID: 2, Title: "Cup", UnitPrice: decimal.NewFromInt(500), Quantity: 1},
	}}

	raw, err := Encode(state)
	require.NoError(t, err)
	got, err := Decode(raw)
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	for i := range state.Items {
		assert.Equal(t, state.Items[i].ID, got.Items[i].ID)
		assert.Equal(t, state.Items[i].Title, got.Items[i].Title)
		assert.Equal(t, state.Items[i].Image, got.Items[i].Image)
		assert.Equal(t, state.Items[i].Quantity, got.Items[i].Quantity)
		assert.True(t, state.Items[i].UnitPrice.Equal(got.Items[i].UnitPrice))
	}
}

func TestDecode_NumericPrice(t *testing.T) {
	got, err := Decode([]byte(`{"items":[{"id":5,"title":"x","price":10000,"qty":2}]}`))
	require.NoError(t, err)
	assert.True(t, got.TotalPrice().Equal(decimal.NewFromInt(20000)))
}
