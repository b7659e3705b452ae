// Package cart manages the shared shopping cart. There is one cart per store,
// not per user; it is emptied on checkout and on logout.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/product"
)

// Item is a cart line. Product is the snapshot taken when the line was
// created and is not refreshed afterwards; see Service.Check for the live
// state. Seq orders lines by when they were added.
type Item struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   product.Product `json:"product"`
	Seq       int64           `json:"seq"`
}

func (it Item) SellerID() string { return it.Product.SellerID }

// LineTotal is quantity × snapshot price.
func (it Item) LineTotal() decimal.Decimal {
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Total sums the line totals.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Count sums the quantities.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Staleness compares a line's snapshot with the live product. Current is nil
// when the product was deleted; Shortfall is how many kg of the line the live
// stock cannot cover. PriceDelta is what the line would cost more (or less)
// at the live price.
type Staleness struct {
	Item         Item
	Current      *product.Product
	PriceChanged bool
	PriceDelta   decimal.Decimal
	Shortfall    int
}

func (s Staleness) Stale() bool {
	return s.Current == nil || s.PriceChanged || s.Shortfall > 0
}
