package shop

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CartContent maps product ids to the units held for one session.
// A missing key means zero units.
type CartContent map[string]int

func (c CartContent) Units(productID string) int {
	return c[productID]
}

// ProductIDs returns the keys in sorted order.
func (c CartContent) ProductIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Add increases the units of productID by n.
func (c CartContent) Add(productID string, n int) {
	c.set(productID, c.Units(productID)+n)
}

// Remove decreases the units of productID by n, dropping the key once
// nothing is left.
func (c CartContent) Remove(productID string, n int) {
	c.set(productID, c.Units(productID)-n)
}

func (c CartContent) set(productID string, units int) {
	if units > 0 {
		c[productID] = units
		return
	}
	delete(c, productID)
}

// Prune drops every non-positive entry.
func (c CartContent) Prune() {
	for id, units := range c {
		if units <= 0 {
			delete(c, id)
		}
	}
}

// Product is a catalog entry. Available is the number of units in inventory
// as reported by the catalog.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Available   int
}

// LineItem pairs a product with a unit count. What the count means depends on
// where the item came from: units reserved by a reservation, units requested
// by a cart update, or units held in a cart.
type LineItem struct {
	Product Product
	Units   int
}

// Subtotal is price times units.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Units)))
}

type ReservationRequest struct {
	ProductID string `json:"productId"`
	SessionID string `json:"sessionId"`
	Units     int    `json:"units"`
}

// OrderRequest carries the payment details a client submits on checkout.
type OrderRequest struct {
	SessionID  string
	CardNumber string
	CardOwner  string
	Checksum   string
}

// SagaRequest starts the order pipeline at the orchestrator.
type SagaRequest struct {
	SessionID  string
	CardNumber string
	CardOwner  string
	Checksum   string
	Total      decimal.Decimal
}

// CartDelta is one signed change requested for a cart: positive adds,
// negative removes, zero is ignored.
type CartDelta struct {
	ProductID string
	Units     int
}

type Confirmation struct {
	SessionID string
	Total     decimal.Decimal
}

// OrderPlaced is announced after the orchestrator accepted an order.
type OrderPlaced struct {
	SessionID string
	Total     decimal.Decimal
	Items     []LineItem
}
