package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Shipping is free above the threshold, a flat fee below it.
var (
	freeShippingThreshold = decimal.NewFromInt(50)
	flatShippingFee       = decimal.RequireFromString("4.99")
)

var ErrNonPositiveQuantity = errors.New("quantity must be positive")

// Cart holds the line items a user intends to purchase, in insertion order.
// Invariant: at most one item per ItemKey, every quantity positive. All
// mutation goes through the methods below.
type Cart struct {
	Items []LineItem `json:"items"`
}

func (c *Cart) find(key ItemKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

// Add merges-or-inserts: a second add of the same product and size
// accumulates quantity instead of duplicating the row. Quantities must be
// positive; there is no upper bound.
func (c *Cart) Add(item LineItem) error {
	if item.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}

	if i := c.find(item.Key()); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return nil
	}

	c.Items = append(c.Items, item)
	return nil
}

// SetQuantity overwrites the quantity for key. A non-positive quantity
// removes the entry, keeping the positive-quantity invariant. Absent keys
// are a no-op.
func (c *Cart) SetQuantity(key ItemKey, quantity int) {
	i := c.find(key)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = quantity
}

// Remove deletes the entry for key; absent keys are a no-op.
func (c *Cart) Remove(key ItemKey) {
	if i := c.find(key); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Clear empties the cart in place.
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (c *Cart) ShippingCost() decimal.Decimal {
	if len(c.Items) == 0 {
		return decimal.Zero
	}
	if c.Subtotal().GreaterThan(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingFee
}

func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.ShippingCost())
}
