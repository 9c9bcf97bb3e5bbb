package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/danipaBernales/modern-ecommerce/internal/cart/domain"
	catalog "github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

// Store is the single source of truth for purchase-intent state. Every
// mutation is atomic with respect to observers and publishes the new
// State to all subscribers synchronously before the call returns.
// Persistence failures are logged and never roll back the in-memory
// state, which stays authoritative for the session.
type Store struct {
	persist Persistence
	log     *slog.Logger

	mu    sync.Mutex
	state domain.State
	subs  []func(domain.State)
}

// NewStore builds a Store hydrated from persist. A load failure (or a
// nil persist) starts the session with an empty cart.
func NewStore(ctx context.Context, persist Persistence, log *slog.Logger) *Store {
	s := &Store{persist: persist, log: log}
	if persist == nil {
		return s
	}
	state, err := persist.Load(ctx)
	if err != nil {
		log.Warn("cart hydration failed, starting empty", slog.Any("err", err))
		return s
	}
	s.state = state
	return s
}

// Subscribe registers fn to receive the full new State on every
// mutation. Callbacks run synchronously under the mutation lock and
// must not call back into the store.
func (s *Store) Subscribe(fn func(domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// State returns a copy of the current cart contents.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ItemCount is the current sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemCount()
}

// Subtotal is the current Σ unit price × quantity.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subtotal()
}

// Add puts p in the cart. A product not yet present is inserted at the
// end with quantity 1 and a snapshot of its display fields; a product
// already present has its quantity incremented by 1, so every caller
// gets the add-becomes-increment rule without duplicating it.
func (s *Store) Add(ctx context.Context, p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.state.Items {
		if it.ProductID == p.ID {
			s.state.Items[i].Quantity++
			s.commit(ctx)
			return
		}
	}

	s.state.Items = append(s.state.Items, domain.Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  1,
	})
	s.commit(ctx)
}

// SetQuantity sets the quantity for productID. A quantity of zero or
// less removes the item. An absent productID is a silent no-op that
// still persists and publishes.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.state.Items {
		if it.ProductID != productID {
			continue
		}
		if qty <= 0 {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
		} else {
			s.state.Items[i].Quantity = qty
		}
		break
	}
	s.commit(ctx)
}

// Remove deletes the item for productID if present; absent is not an
// error.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, it := range s.state.Items {
		if it.ProductID == productID {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			break
		}
	}
	s.commit(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.State{}
	s.commit(ctx)
}

// Reset empties the cart and drops the persisted snapshot. Used on
// sign-out.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.State{}
	if s.persist != nil {
		if err := s.persist.Reset(ctx); err != nil {
			s.log.Warn("cart reset persistence failed", slog.Any("err", err))
		}
	}
	s.notify()
}

// commit persists the current state and notifies subscribers. Callers
// hold s.mu.
func (s *Store) commit(ctx context.Context) {
	if s.persist != nil {
		if err := s.persist.Save(ctx, s.state.Clone()); err != nil {
			s.log.Warn("cart persistence failed, in-memory state kept", slog.Any("err", err))
		}
	}
	s.notify()
}

func (s *Store) notify() {
	snapshot := s.state.Clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}
}
