package catalog

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is the storefront grid size.
const DefaultPageSize = 8

// FilterSpec narrows a product list. All conditions are AND'd. Nil price
// bounds mean unbounded; both bounds are inclusive. RequiredTags must all be
// present; AnySizes matches when the product offers at least one of them.
// Inactive products never match, whatever the other criteria say.
type FilterSpec struct {
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	PrimaryTag   string
	RequiredTags []string
	AnySizes     []string
}

func (f FilterSpec) Matches(p Product) bool {
	if !p.Active {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.PrimaryTag != "" && !p.HasTag(f.PrimaryTag) {
		return false
	}
	for _, t := range f.RequiredTags {
		if !p.HasTag(t) {
			return false
		}
	}
	if len(f.AnySizes) > 0 && !offersAny(p, f.AnySizes) {
		return false
	}
	return true
}

func offersAny(p Product, sizes []string) bool {
	for _, want := range sizes {
		if _, ok := p.SizeStockFor(want); ok {
			return true
		}
	}
	return false
}

// Filter returns the matching subset in source order. The input slice is
// never mutated.
func Filter(products []Product, spec FilterSpec) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if spec.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterAndPaginate filters, then slices page `page` (1-based) of size
// `size` out of the matches. A page past the end yields an empty slice, not
// an error; totalPages is always the true count. Callers changing the spec
// are expected to restart at page 1.
func FilterAndPaginate(products []Product, spec FilterSpec, page, size int) (pageItems []Product, totalPages int) {
	if size <= 0 {
		size = DefaultPageSize
	}

	matched := Filter(products, spec)
	totalPages = (len(matched) + size - 1) / size

	if page < 1 {
		return []Product{}, totalPages
	}

	start := (page - 1) * size
	if start >= len(matched) {
		return []Product{}, totalPages
	}

	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], totalPages
}

// Facets are the filter bounds derived from a product list: the global price
// range, the tag universe and the size universe.
type Facets struct {
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
	Tags     []string        `json:"tags"`
	Sizes    []string        `json:"sizes"`
}

// ComputeFacets derives filter bounds. An empty list yields a [0, 0] price
// range. Sizes sort numerically ascending where parseable, with any
// non-numeric sizes after them.
func ComputeFacets(products []Product) Facets {
	f := Facets{Tags: []string{}, Sizes: []string{}}
	if len(products) == 0 {
		return f
	}

	f.MinPrice = products[0].Price
	f.MaxPrice = products[0].Price

	seenTag := map[string]bool{}
	seenSize := map[string]bool{}

	for _, p := range products {
		if p.Price.LessThan(f.MinPrice) {
			f.MinPrice = p.Price
		}
		if p.Price.GreaterThan(f.MaxPrice) {
			f.MaxPrice = p.Price
		}
		for _, t := range p.Tags {
			if !seenTag[t] {
				seenTag[t] = true
				f.Tags = append(f.Tags, t)
			}
		}
		for _, s := range p.Sizes {
			if !seenSize[s.Size] {
				seenSize[s.Size] = true
				f.Sizes = append(f.Sizes, s.Size)
			}
		}
	}

	sort.Strings(f.Tags)
	sortSizes(f.Sizes)
	return f
}

func sortSizes(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		ni, errI := strconv.Atoi(sizes[i])
		nj, errJ := strconv.Atoi(sizes[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return sizes[i] < sizes[j]
		}
	})
}
