package domain

import (
	"encoding/json"
	"fmt"
)

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is an ordered ledger of lines, at most one per product identity.
// Quantities never drop below 1; removal is an explicit operation.
type Cart struct {
	lines  []CartLine
	loaded bool
}

func NewCart() *Cart {
	return &Cart{}
}

// Load restores previously persisted state. The cart is considered loaded
// even when the payload is unparsable: the caller logs the error and the
// session continues with an empty ledger.
func (c *Cart) Load(data []byte) error {
	c.loaded = true
	if len(data) == 0 {
		return nil
	}
	var lines []CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("parse cart state: %w", err)
	}
	c.lines = lines
	return nil
}

func (c *Cart) Loaded() bool {
	return c.loaded
}

// Add increments the quantity of an existing line for the product, or
// appends a new line with quantity 1. The stored product is a snapshot
// taken at add time.
func (c *Cart) Add(p Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: 1})
}

// Remove deletes the line for the product, preserving the order of the
// remaining lines. Unknown IDs are a no-op.
func (c *Cart) Remove(productID int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of the product's line. Quantities below
// 1 are rejected without touching the ledger; dropping a line goes through
// Remove.
func (c *Cart) SetQuantity(productID, quantity int) {
	if quantity < 1 {
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the ledger in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the sum of quantities, recomputed from the lines on every call.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal sums price times quantity over the snapshot prices. Checkout
// never charges from this figure; it is display state only.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

// Snapshot serializes the ledger for persistence. It refuses to produce a
// snapshot before Load has run, so an empty just-started cart can never
// clobber previously persisted state.
func (c *Cart) Snapshot() ([]byte, bool) {
	if !c.loaded {
		return nil, false
	}
	data, err := json.Marshal(c.lines)
	if err != nil {
		return nil, false
	}
	return data, true
}
