package domain

import "github.com/shopspring/decimal"

// Result is a point-in-time snapshot of the catalog as seen through a
// filter. It is replaced wholesale on every query, never patched.
// Categories and MaxPrice describe the unfiltered catalog so filter
// controls stay populated regardless of the current selection.
type Result struct {
	Products   []Product
	Categories []string
	MaxPrice   decimal.Decimal
}

// CategoryGroup is one partition of a product list by category label.
type CategoryGroup struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	ImageURL string `json:"image_url"`
}

// GroupByCategory partitions products by category label, preserving
// first-seen category order. Each group counts its members and carries
// the first-seen image as its representative. Deterministic for a given
// input order.
func GroupByCategory(products []Product) []CategoryGroup {
	index := make(map[string]int, len(products))
	groups := make([]CategoryGroup, 0, len(products))

	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			index[p.Category] = len(groups)
			groups = append(groups, CategoryGroup{
				Name:     p.Category,
				Count:    1,
				ImageURL: p.ImageURL,
			})
			continue
		}
		groups[i].Count++
	}
	return groups
}
