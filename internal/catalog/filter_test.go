package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testProducts() []Product {
	return []Product{
		{
			ID:     "a",
			Price:  dec("50"),
			Active: true,
			Tags:   []string{"pro"},
			Sizes:  []SizeStock{{Size: "8", Stock: 3}, {Size: "9", Stock: 1}},
		},
		{
			ID:     "b",
			Price:  dec("30"),
			Active: true,
			Tags:   []string{"junior"},
			Sizes:  []SizeStock{{Size: "6", Stock: 10}},
		},
		{
			ID:     "c",
			Price:  dec("80"),
			Active: false,
			Tags:   []string{"pro"},
			Sizes:  []SizeStock{{Size: "9", Stock: 0}},
		},
	}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter_PriceRangeAndPrimaryTag(t *testing.T) {
	got := Filter(testProducts(), FilterSpec{
		MinPrice:   decPtr("0"),
		MaxPrice:   decPtr("100"),
		PrimaryTag: "pro",
	})

	// c matches on tag and price but is inactive, b fails the tag.
	require.Equal(t, []string{"a"}, ids(got))
}

func TestFilter_InactiveNeverMatches(t *testing.T) {
	got := Filter(testProducts(), FilterSpec{})
	require.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilter_PriceBoundsAreInclusive(t *testing.T) {
	got := Filter(testProducts(), FilterSpec{MinPrice: decPtr("30"), MaxPrice: decPtr("50")})
	require.Equal(t, []string{"a", "b"}, ids(got))

	got = Filter(testProducts(), FilterSpec{MinPrice: decPtr("30.01")})
	require.Equal(t, []string{"a"}, ids(got))

	got = Filter(testProducts(), FilterSpec{MaxPrice: decPtr("49.99")})
	require.Equal(t, []string{"b"}, ids(got))
}

func TestFilter_RequiredTagsAllMustMatch(t *testing.T) {
	products := []Product{
		{ID: "x", Active: true, Tags: []string{"pro", "match"}},
		{ID: "y", Active: true, Tags: []string{"pro"}},
	}

	got := Filter(products, FilterSpec{RequiredTags: []string{"pro", "match"}})
	require.Equal(t, []string{"x"}, ids(got))
}

func TestFilter_AnySizesMatchesOnOverlap(t *testing.T) {
	got := Filter(testProducts(), FilterSpec{AnySizes: []string{"6", "12"}})
	require.Equal(t, []string{"b"}, ids(got))

	got = Filter(testProducts(), FilterSpec{AnySizes: []string{"12"}})
	require.Empty(t, got)
}

func TestFilter_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	products := testProducts()
	spec := FilterSpec{PrimaryTag: "pro"}

	first := Filter(products, spec)
	second := Filter(products, spec)

	require.Equal(t, first, second)
	require.Equal(t, testProducts(), products)
}

func TestFilterAndPaginate_PagesPartitionTheMatches(t *testing.T) {
	products := make([]Product, 0, 11)
	for i := 0; i < 11; i++ {
		products = append(products, Product{
			ID:     string(rune('a' + i)),
			Active: true,
			Price:  dec("10"),
		})
	}

	const size = 4
	all := Filter(products, FilterSpec{})

	var joined []Product
	_, totalPages := FilterAndPaginate(products, FilterSpec{}, 1, size)
	require.Equal(t, 3, totalPages)

	for page := 1; page <= totalPages; page++ {
		items, pages := FilterAndPaginate(products, FilterSpec{}, page, size)
		require.Equal(t, totalPages, pages)
		joined = append(joined, items...)
	}

	require.Equal(t, all, joined)
}

func TestFilterAndPaginate_PagePastEndIsEmpty(t *testing.T) {
	items, pages := FilterAndPaginate(testProducts(), FilterSpec{}, 7, 2)
	require.Empty(t, items)
	require.Equal(t, 1, pages)
}

func TestFilterAndPaginate_DefaultsPageSize(t *testing.T) {
	products := make([]Product, 0, DefaultPageSize+1)
	for i := 0; i <= DefaultPageSize; i++ {
		products = append(products, Product{ID: string(rune('a' + i)), Active: true})
	}

	items, pages := FilterAndPaginate(products, FilterSpec{}, 1, 0)
	require.Len(t, items, DefaultPageSize)
	require.Equal(t, 2, pages)
}

func TestFilterAndPaginate_NoMatchesNoPages(t *testing.T) {
	items, pages := FilterAndPaginate(testProducts(), FilterSpec{PrimaryTag: "nope"}, 1, 4)
	require.Empty(t, items)
	require.Equal(t, 0, pages)
}

func TestComputeFacets(t *testing.T) {
	f := ComputeFacets(testProducts())

	require.True(t, f.MinPrice.Equal(dec("30")), "min=%s", f.MinPrice)
	require.True(t, f.MaxPrice.Equal(dec("80")), "max=%s", f.MaxPrice)
	require.Equal(t, []string{"junior", "pro"}, f.Tags)
	require.Equal(t, []string{"6", "8", "9"}, f.Sizes)
}

func TestComputeFacets_EmptyList(t *testing.T) {
	f := ComputeFacets(nil)

	require.True(t, f.MinPrice.IsZero())
	require.True(t, f.MaxPrice.IsZero())
	require.Empty(t, f.Tags)
	require.Empty(t, f.Sizes)
}

func TestSortSizes_NumericFirstThenLexical(t *testing.T) {
	sizes := []string{"XL", "10", "S", "7", "M"}
	sortSizes(sizes)
	require.Equal(t, []string{"7", "10", "M", "S", "XL"}, sizes)
}
