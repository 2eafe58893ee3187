package browse

import (
	"sort"
	"strings"

	"trendwear/storefront/internal/domain"
)

// View memoizes the filter step over one catalog snapshot: changing only the
// sort mode re-sorts the last filtered result without re-running the filter,
// while any filter input change re-filters and then re-applies the sort.
type View struct {
	catalog []domain.Product

	lastKey  string
	hasKey   bool
	filtered []domain.Product
}

func NewView(catalog []domain.Product) *View {
	return &View{catalog: catalog}
}

// Apply returns the products matching q, sorted by q.Sort. An empty result
// is a valid terminal state, not an error.
func (v *View) Apply(q Query) []domain.Product {
	key := filterKey(q)
	if !v.hasKey || key != v.lastKey {
		v.filtered = Filter(v.catalog, q)
		v.lastKey = key
		v.hasKey = true
	}

	results := make([]domain.Product, len(v.filtered))
	copy(results, v.filtered)
	SortByPrice(results, q.Sort)
	return results
}

// filterKey canonicalizes the filter inputs (sort mode excluded) so facet
// ordering does not defeat the memo.
func filterKey(q Query) string {
	categories := append([]string(nil), q.Categories...)
	subCategories := append([]string(nil), q.SubCategories...)
	sort.Strings(categories)
	sort.Strings(subCategories)

	var b strings.Builder
	if q.SearchActive {
		b.WriteString(strings.ToLower(q.Search))
	}
	b.WriteByte('\x1f')
	b.WriteString(strings.Join(categories, "\x1f"))
	b.WriteByte('\x1e')
	b.WriteString(strings.Join(subCategories, "\x1f"))
	return b.String()
}
