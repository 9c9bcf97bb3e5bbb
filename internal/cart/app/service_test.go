package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/danipaBernales/modern-ecommerce/internal/cart/domain"
	catalog "github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

type fakePersistence struct {
	state    domain.State
	loadErr  error
	saveErr  error
	saves    int
	resets   int
}

func (f *fakePersistence) Load(context.Context) (domain.State, error) {
	return f.state, f.loadErr
}

func (f *fakePersistence) Save(_ context.Context, s domain.State) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = s
	return nil
}

func (f *fakePersistence) Reset(context.Context) error {
	f.resets++
	f.state = domain.State{}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func product(id, name string, price int64) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromInt(price),
		ImageURL: "https://img.example/" + id,
	}
}

func TestAddIncrementsExistingItem(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, testLogger())
	p := product("p1", "Keyboard", 50)

	s.Add(ctx, p)
	s.Add(ctx, p)

	state := s.State()
	require.Len(t, state.Items, 1)
	require.Equal(t, 2, state.Items[0].Quantity)

	s.Add(ctx, p)
	state = s.State()
	require.Len(t, state.Items, 1)
	require.Equal(t, 3, state.Items[0].Quantity)
}

func TestAddCapturesSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, testLogger())

	s.Add(ctx, product("p1", "Desk Lamp", 35))

	state := s.State()
	require.Len(t, state.Items, 1)
	it := state.Items[0]
	require.Equal(t, "p1", it.ProductID)
	require.Equal(t, "Desk Lamp", it.Name)
	require.True(t, it.UnitPrice.Equal(decimal.NewFromInt(35)))
	require.Equal(t, "https://img.example/p1", it.ImageURL)
	require.Equal(t, 1, it.Quantity)
}

func TestStateInvariantsUnderMutationSequences(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, testLogger())
	p1 := product("p1", "A", 10)
	p2 := product("p2", "B", 20)

	s.Add(ctx, p1)
	s.Add(ctx, p2)
	s.Add(ctx, p1)
	s.SetQuantity(ctx, "p2", 5)
	s.SetQuantity(ctx, "p1", -3)
	s.Add(ctx, p1)
	s.Remove(ctx, "missing")
	s.SetQuantity(ctx, "p2", 0)
	s.Add(ctx, p2)

	state := s.State()
	seen := map[string]bool{}
	for _, it := range state.Items {
		require.Positivef(t, it.Quantity, "item %s has non-positive quantity", it.ProductID)
		require.Falsef(t, seen[it.ProductID], "duplicate item %s", it.ProductID)
		seen[it.ProductID] = true
	}
}

func TestSubtotalRecomputedOnEveryRead(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, testLogger())

	s.Add(ctx, product("p1", "A", 10))
	s.Add(ctx, product("p2", "B", 7))
	require.True(t, s.Subtotal().Equal(decimal.NewFromInt(17)))
	require.Equal(t, 2, s.ItemCount())

	s.SetQuantity(ctx, "p1", 4)
	require.True(t, s.Subtotal().Equal(decimal.NewFromInt(47)))
	require.Equal(t, 5, s.ItemCount())

	s.Remove(ctx, "p2")
	require.True(t, s.Subtotal().Equal(decimal.NewFromInt(40)))
}

func TestSetQuantityZeroRemovesThenNoOp(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, testLogger())

	s.Add(ctx, product("p1", "A", 10))
	s.SetQuantity(ctx, "p1", 0)
	require.Empty(t, s.State().Items)

	// Absent id: silent no-op, must not panic.
	s.SetQuantity(ctx, "p1", 0)
	require.Empty(t, s.State().Items)
}

func TestSetQuantityAbsentStillPersists(t *testing.T) {
	ctx := context.Background()
	fp := &fakePersistence{}
	s := NewStore(ctx, fp, testLogger())

	s.SetQuantity(ctx, "ghost", 3)
	require.Equal(t, 1, fp.saves)
	require.Empty(t, s.State().Items)
}

func TestSubscribePublishesSynchronously(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, nil, testLogger())

	var published []domain.State
	s.Subscribe(func(st domain.State) {
		published = append(published, st)
	})

	s.Add(ctx, product("p1", "A", 10))
	require.Len(t, published, 1)
	require.Equal(t, 1, published[0].ItemCount())

	s.SetQuantity(ctx, "p1", 3)
	require.Len(t, published, 2)
	require.Equal(t, 3, published[1].ItemCount())

	s.Clear(ctx)
	require.Len(t, published, 3)
	require.Empty(t, published[2].Items)
}

func TestPersistenceFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	fp := &fakePersistence{saveErr: errors.New("disk gone")}
	s := NewStore(ctx, fp, testLogger())

	s.Add(ctx, product("p1", "A", 10))

	state := s.State()
	require.Len(t, state.Items, 1)
	require.Equal(t, 1, state.Items[0].Quantity)
}

func TestHydrationRestoresOrderAndQuantities(t *testing.T) {
	ctx := context.Background()
	fp := &fakePersistence{state: domain.State{Items: []domain.Item{
		{ProductID: "p2", Name: "B", UnitPrice: decimal.NewFromInt(20), Quantity: 2},
		{ProductID: "p1", Name: "A", UnitPrice: decimal.NewFromInt(10), Quantity: 1},
	}}}

	s := NewStore(ctx, fp, testLogger())

	state := s.State()
	require.Len(t, state.Items, 2)
	require.Equal(t, "p2", state.Items[0].ProductID)
	require.Equal(t, 2, state.Items[0].Quantity)
	require.Equal(t, "p1", state.Items[1].ProductID)
	require.True(t, s.Subtotal().Equal(decimal.NewFromInt(50)))
}

func TestHydrationFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()
	fp := &fakePersistence{loadErr: errors.New("corrupt")}

	s := NewStore(ctx, fp, testLogger())
	require.Empty(t, s.State().Items)
}

func TestResetDropsPersistedSnapshot(t *testing.T) {
	ctx := context.Background()
	fp := &fakePersistence{}
	s := NewStore(ctx, fp, testLogger())

	s.Add(ctx, product("p1", "A", 10))
	s.Reset(ctx)

	require.Empty(t, s.State().Items)
	require.Equal(t, 1, fp.resets)
	require.Empty(t, fp.state.Items)
}
