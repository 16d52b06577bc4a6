package catalog

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as JSON numbers, matching the public contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// SizeStock is the per-size stock entry of a product variant.
type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock_quantity"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"img"`
	Category    string          `json:"category"`
	Tag         string          `json:"tag"`
	Active      bool            `json:"is_active"`
	Sizes       []SizeStock     `json:"sizes"`
	Tags        []string        `json:"tags"`
}

// AvailableSizes lists the sizes with stock on hand, in declaration order.
func (p Product) AvailableSizes() []string {
	out := make([]string, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		if s.Stock > 0 {
			out = append(out, s.Size)
		}
	}
	return out
}

func (p Product) TotalStock() int {
	n := 0
	for _, s := range p.Sizes {
		n += s.Stock
	}
	return n
}

func (p Product) InStock() bool { return p.TotalStock() > 0 }

func (p Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SizeStockFor reports the stock for one size and whether the product
// offers that size at all.
func (p Product) SizeStockFor(size string) (int, bool) {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Stock, true
		}
	}
	return 0, false
}
