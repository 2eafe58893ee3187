package browse

import (
	"testing"

	"trendwear/storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Round Neck Tee", Price: 30, Category: "Men", SubCategory: "Topwear"},
		{ID: "p2", Name: "Slim Jeans", Price: 10, Category: "Men", SubCategory: "Bottomwear"},
		{ID: "p3", Name: "Summer Dress", Price: 20, Category: "Women", SubCategory: "Topwear"},
		{ID: "p4", Name: "Kids Jacket", Price: 20, Category: "Kids", SubCategory: "Winterwear"},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterByCategory(t *testing.T) {
	got := Filter(testCatalog(), Query{Categories: []string{"Men"}})
	assert.Equal(t, []string{"p1", "p2"}, ids(got))
}

func TestFilterEmptyCategorySetPassesThrough(t *testing.T) {
	got := Filter(testCatalog(), Query{})
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(got))
}

func TestFilterCategoryOrSemantics(t *testing.T) {
	got := Filter(testCatalog(), Query{Categories: []string{"Women", "Kids"}})
	assert.Equal(t, []string{"p3", "p4"}, ids(got))
}

func TestFilterBySubCategory(t *testing.T) {
	got := Filter(testCatalog(), Query{SubCategories: []string{"Topwear"}})
	assert.Equal(t, []string{"p1", "p3"}, ids(got))
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	got := Filter(testCatalog(), Query{Search: "JEANS", SearchActive: true})
	assert.Equal(t, []string{"p2"}, ids(got))
}

func TestFilterSearchIgnoredWhenInactive(t *testing.T) {
	got := Filter(testCatalog(), Query{Search: "jeans", SearchActive: false})
	assert.Len(t, got, 4)
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	got := Filter(testCatalog(), Query{Categories: []string{"Men"}, SubCategories: []string{"Winterwear"}})
	assert.Empty(t, got)
}

func TestSortLowHigh(t *testing.T) {
	items := []domain.Product{{ID: "a", Price: 30}, {ID: "b", Price: 10}, {ID: "c", Price: 20}}
	SortByPrice(items, SortLowHigh)
	assert.Equal(t, []string{"b", "c", "a"}, ids(items))

	// Re-sorting an already sorted list is idempotent
	SortByPrice(items, SortLowHigh)
	assert.Equal(t, []string{"b", "c", "a"}, ids(items))
}

func TestSortHighLow(t *testing.T) {
	items := []domain.Product{{ID: "a", Price: 30}, {ID: "b", Price: 10}, {ID: "c", Price: 20}}
	SortByPrice(items, SortHighLow)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))
}

func TestSortIsStable(t *testing.T) {
	items := []domain.Product{{ID: "a", Price: 20}, {ID: "b", Price: 20}, {ID: "c", Price: 10}}
	SortByPrice(items, SortLowHigh)
	assert.Equal(t, []string{"c", "a", "b"}, ids(items))
}

func TestSortRelevantKeepsFilteredOrder(t *testing.T) {
	items := []domain.Product{{ID: "a", Price: 30}, {ID: "b", Price: 10}}
	SortByPrice(items, SortRelevant)
	assert.Equal(t, []string{"a", "b"}, ids(items))
}

func TestViewSortChangeReusesFilteredResult(t *testing.T) {
	catalog := testCatalog()
	view := NewView(catalog)

	q := Query{Categories: []string{"Men"}, Sort: SortRelevant}
	first := view.Apply(q)
	require.Equal(t, []string{"p1", "p2"}, ids(first))

	// Mutate the backing catalog; a pure sort change must not re-run the
	// filter, so the memoized result still reflects the old snapshot.
	catalog[0].Price = 1

	q.Sort = SortLowHigh
	second := view.Apply(q)
	require.Equal(t, []string{"p2", "p1"}, ids(second))
	assert.Equal(t, 30.0, second[1].Price)

	// Changing a filter input re-runs the filter and picks up the change.
	q.Categories = []string{"Men", "Women"}
	third := view.Apply(q)
	require.Equal(t, []string{"p1", "p2", "p3"}, ids(third))
	assert.Equal(t, 1.0, third[0].Price)
}

func TestViewFacetOrderDoesNotDefeatMemo(t *testing.T) {
	view := NewView(testCatalog())

	a := view.Apply(Query{Categories: []string{"Men", "Women"}})
	b := view.Apply(Query{Categories: []string{"Women", "Men"}})
	assert.Equal(t, ids(a), ids(b))
}

func TestViewDoesNotMutateMemoizedSlice(t *testing.T) {
	view := NewView(testCatalog())

	q := Query{Sort: SortLowHigh}
	_ = view.Apply(q)

	q.Sort = SortRelevant
	got := view.Apply(q)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, ids(got), "relevant order must survive a prior price sort")
}
