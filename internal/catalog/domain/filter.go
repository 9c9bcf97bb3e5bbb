package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Sort int

const (
	// SortRelevance leaves the backing store's natural order untouched.
	SortRelevance Sort = iota
	SortPriceAsc
	SortPriceDesc
	SortNewest
)

// ParseSort maps the wire value to a Sort. Unknown values fall back to
// relevance so the catalog stays queryable on bad input.
func ParseSort(s string) Sort {
	switch strings.TrimSpace(s) {
	case "price-asc":
		return SortPriceAsc
	case "price-desc":
		return SortPriceDesc
	case "newest":
		return SortNewest
	default:
		return SortRelevance
	}
}

// Filter is the active query specification. A zero-value field means
// "no constraint", never "match nothing": an empty Category or Search
// adds no predicate, and a zero MaxPrice leaves the range unbounded
// above.
type Filter struct {
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Search   string
	Sort     Sort
}

// Normalize returns a fully-specified copy of f with malformed input
// clamped rather than rejected: negative bounds go to zero and an
// inverted range is swapped. Whitespace-only category/search collapse
// to unset.
func (f Filter) Normalize() Filter {
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)

	if f.MinPrice.IsNegative() {
		f.MinPrice = decimal.Zero
	}
	if f.MaxPrice.IsNegative() {
		f.MaxPrice = decimal.Zero
	}
	if f.MaxPrice.IsPositive() && f.MinPrice.GreaterThan(f.MaxPrice) {
		f.MinPrice, f.MaxPrice = f.MaxPrice, f.MinPrice
	}
	return f
}

// HasPriceCeiling reports whether the filter bounds price from above.
func (f Filter) HasPriceCeiling() bool {
	return f.MaxPrice.IsPositive()
}
