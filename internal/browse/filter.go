package browse

import (
	"sort"
	"strings"

	"trendwear/storefront/internal/domain"
)

// SortMode reorders a filtered result by price. SortRelevant keeps the
// filtered order unchanged.
type SortMode string

const (
	SortRelevant SortMode = "relevant"
	SortLowHigh  SortMode = "low-high"
	SortHighLow  SortMode = "high-low"
)

// Query is the transient per-screen filter state. Facets use OR semantics
// within themselves; an empty facet passes everything through.
type Query struct {
	Search        string
	SearchActive  bool
	Categories    []string
	SubCategories []string
	Sort          SortMode
}

// Filter narrows the catalog snapshot: search term first (case-insensitive
// substring on the name), then category facet, then sub-category facet.
func Filter(products []domain.Product, q Query) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))

	search := strings.ToLower(q.Search)
	categories := toSet(q.Categories)
	subCategories := toSet(q.SubCategories)

	for _, p := range products {
		if q.SearchActive && search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if len(categories) > 0 && !categories[p.Category] {
			continue
		}
		if len(subCategories) > 0 && !subCategories[p.SubCategory] {
			continue
		}
		filtered = append(filtered, p)
	}

	return filtered
}

// SortByPrice reorders items in place according to mode. The sort is stable,
// so equal prices keep their filtered order.
func SortByPrice(items []domain.Product, mode SortMode) {
	switch mode {
	case SortLowHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price < items[j].Price
		})
	case SortHighLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price > items[j].Price
		})
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
