package domain

import "github.com/shopspring/decimal"

// Item is a (product, quantity) pair carrying a denormalized snapshot
// of the display fields captured at add time, so the cart renders
// without re-fetching the product. Quantity is always positive in
// stored state; an item dropping to zero is removed, never kept.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
}

// State is the ordered cart contents. Insertion order is display
// order. At most one Item per product identifier.
type State struct {
	Items []Item `json:"items"`
}

// ItemCount is the sum of quantities, recomputed on every call.
func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is Σ unit price × quantity, recomputed on every call.
func (s State) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Clone returns a deep enough copy for handing to observers; Items
// share no backing array with the original.
func (s State) Clone() State {
	out := State{Items: make([]Item, len(s.Items))}
	copy(out.Items, s.Items)
	return out
}
