package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/product"
)

// reserveStock takes the ordered kg of every line out of the live listing.
// Quantities stop at zero and products deleted since checkout are skipped.
func reserveStock(ctx context.Context, products product.Repository, o *Order) error {
	for _, it := range o.Items {
		p, err := products.GetByID(ctx, it.ProductID)
		if errors.Is(err, product.ErrNotFound) {
			log.Printf("[order] accept %s: product %s is gone, skipping", o.ID, it.ProductID)
			continue
		}
		if err != nil {
			return fmt.Errorf("load product %s: %w", it.ProductID, err)
		}
		left := p.Quantity - it.Quantity
		if left < 0 {
			unfilled := it.Product.Price.Mul(decimal.NewFromInt(int64(-left)))
			log.Printf("[order] accept %s: product %s short by %d kg, %s unfilled", o.ID, p.ID, -left, unfilled.StringFixed(2))
			left = 0
		}
		p.Quantity = left
		p.UpdatedAt = time.Now().UTC()
		if err := products.Save(ctx, p); err != nil {
			return fmt.Errorf("save product %s: %w", p.ID, err)
		}
	}
	return nil
}
