package cart

import "github.com/shopspring/decimal"

func init() {
	// Amounts go over the wire as JSON numbers, matching the public contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// ItemKey identifies a line item: one product in one size. Compared by
// value, never as a concatenated string, so ("1-2", "") and ("1", "2")
// stay distinct.
type ItemKey struct {
	ProductID string
	Size      string
}

// LineItem is one cart row. Price and display fields are a snapshot taken
// from the catalog at insertion time, not a live reference.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	Size        string          `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Name        string          `json:"name"`
	Image       string          `json:"img,omitempty"`
	Description string          `json:"description,omitempty"`
	Tag         string          `json:"tag,omitempty"`
}

func (it LineItem) Key() ItemKey {
	return ItemKey{ProductID: it.ProductID, Size: it.Size}
}

func (it LineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
