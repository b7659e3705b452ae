package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/product"
)

// MaxAddQuantity caps a single add-to-cart.
const MaxAddQuantity = 10

var ErrOutOfStock = errors.New("product is out of stock")

type Service struct {
	repo     Repository
	products product.Repository
}

func NewService(repo Repository, products product.Repository) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Items(ctx context.Context) ([]Item, error) {
	return s.repo.Items(ctx)
}

// Add puts qty kg of a product in the cart, clamped to 1..MaxAddQuantity.
// An existing line keeps its snapshot and has qty added to it.
func (s *Service) Add(ctx context.Context, productID string, qty int) (*Item, error) {
	if qty < 1 {
		qty = 1
	}
	if qty > MaxAddQuantity {
		qty = MaxAddQuantity
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.InStock() {
		return nil, ErrOutOfStock
	}

	it, err := s.repo.Get(ctx, productID)
	switch {
	case errors.Is(err, ErrNotFound):
		seq, err := s.nextSeq(ctx)
		if err != nil {
			return nil, err
		}
		it = &Item{ProductID: p.ID, Quantity: qty, Product: *p, Seq: seq}
	case err != nil:
		return nil, err
	default:
		it.Quantity += qty
	}
	if err := s.repo.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return it, nil
}

func (s *Service) nextSeq(ctx context.Context) (int64, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return 0, err
	}
	var last int64
	for _, it := range items {
		if it.Seq > last {
			last = it.Seq
		}
	}
	return last + 1, nil
}

// SetQuantity sets a line's quantity, capped at the snapshot's available
// stock. n <= 0 removes the line and returns nil.
func (s *Service) SetQuantity(ctx context.Context, productID string, n int) (*Item, error) {
	it, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		if _, err := s.repo.Remove(ctx, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if n > it.Product.Quantity {
		n = it.Product.Quantity
	}
	it.Quantity = n
	if err := s.repo.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return it, nil
}

func (s *Service) Remove(ctx context.Context, productID string) error {
	ok, err := s.repo.Remove(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Check looks up the live product of every line.
func (s *Service) Check(ctx context.Context) ([]Staleness, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Staleness, 0, len(items))
	for _, it := range items {
		st := Staleness{Item: it}
		cur, err := s.products.GetByID(ctx, it.ProductID)
		switch {
		case errors.Is(err, product.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			st.Current = cur
			st.PriceChanged = !cur.Price.Equal(it.Product.Price)
			st.PriceDelta = cur.Price.Sub(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
			if short := it.Quantity - cur.Quantity; short > 0 {
				st.Shortfall = short
			}
		}
		out = append(out, st)
	}
	return out, nil
}
