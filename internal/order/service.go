// Package order turns the cart into per-seller orders and drives them through
// pending, accepted, rejected and delivered.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/MikeMC777/agromercado/internal/cart"
	"github.com/MikeMC777/agromercado/internal/idgen"
	"github.com/MikeMC777/agromercado/internal/jsondate"
	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/store"
	"github.com/MikeMC777/agromercado/internal/user"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("order belongs to someone else")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAddressRequired   = errors.New("delivery address is required")
)

// Service runs every multi-record operation inside one store transaction.
type Service struct {
	db store.Store
}

func NewService(db store.Store) *Service { return &Service{db: db} }

type repos struct {
	orders   Repository
	products product.Repository
	cart     cart.Repository
}

func on(tx store.Tx) repos {
	return repos{
		orders:   NewKVRepo(tx),
		products: product.NewKVRepo(tx),
		cart:     cart.NewKVRepo(tx),
	}
}

// Checkout splits the cart into one pending order per seller, in the order
// sellers first appear in the cart, and empties the cart.
func (s *Service) Checkout(ctx context.Context, buyer *user.User) ([]Order, error) {
	if buyer == nil || buyer.ID == "" {
		return nil, fmt.Errorf("%w: buyer is required", ErrInvalidInput)
	}
	if !buyer.HasAddress() {
		return nil, ErrAddressRequired
	}

	var placed []Order
	err := s.db.Update(ctx, func(tx store.Tx) error {
		r := on(tx)
		items, err := r.cart.Items(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var sellers []string
		bySeller := map[string][]cart.Item{}
		for _, it := range items {
			sid := it.SellerID()
			if _, ok := bySeller[sid]; !ok {
				sellers = append(sellers, sid)
			}
			bySeller[sid] = append(bySeller[sid], it)
		}

		now := time.Now().UTC()
		placed = make([]Order, 0, len(sellers))
		for _, sid := range sellers {
			lines := bySeller[sid]
			o := Order{
				ID:           idgen.New(),
				BuyerID:      buyer.ID,
				BuyerName:    buyer.Name,
				SellerID:     sid,
				Items:        lines,
				TotalAmount:  cart.Total(lines),
				Status:       StatusPending,
				OrderDate:    jsondate.Of(now),
				BuyerAddress: buyer.Address(),
				UpdatedAt:    now,
			}
			if err := r.orders.Save(ctx, &o); err != nil {
				return fmt.Errorf("save order: %w", err)
			}
			placed = append(placed, o)
		}
		return r.cart.Clear(ctx)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[order] checkout buyer=%s orders=%d", buyer.ID, len(placed))
	return placed, nil
}

// sellerOrder loads an order and checks it is addressed to sellerID.
func sellerOrder(ctx context.Context, r repos, sellerID, id string) (*Order, error) {
	o, err := r.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, ErrForbidden
	}
	return o, nil
}

func move(o *Order, to Status) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Accept marks the order accepted and takes its quantities out of stock in
// the same transaction.
func (s *Service) Accept(ctx context.Context, sellerID, orderID string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, StatusAccepted, func(r repos, o *Order) error {
		return reserveStock(ctx, r.products, o)
	})
}

// Reject leaves inventory untouched.
func (s *Service) Reject(ctx context.Context, sellerID, orderID string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, StatusRejected, nil)
}

func (s *Service) Deliver(ctx context.Context, sellerID, orderID string) (*Order, error) {
	return s.transition(ctx, sellerID, orderID, StatusDelivered, nil)
}

func (s *Service) transition(ctx context.Context, sellerID, orderID string, to Status, effect func(r repos, o *Order) error) (*Order, error) {
	var out *Order
	err := s.db.Update(ctx, func(tx store.Tx) error {
		r := on(tx)
		o, err := sellerOrder(ctx, r, sellerID, orderID)
		if err != nil {
			return err
		}
		if err := move(o, to); err != nil {
			return err
		}
		if effect != nil {
			if err := effect(r, o); err != nil {
				return err
			}
		}
		if err := r.orders.Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[order] %s seller=%s order=%s", to, sellerID, orderID)
	return out, nil
}

// Review records the buyer's ratings for products of a delivered order.
// Inputs with a rating of zero or less are skipped. It returns the number of
// reviews added.
func (s *Service) Review(ctx context.Context, buyer *user.User, orderID string, in []ReviewInput) (int, error) {
	if buyer == nil {
		return 0, fmt.Errorf("%w: buyer is required", ErrInvalidInput)
	}
	added := 0
	err := s.db.Update(ctx, func(tx store.Tx) error {
		added = 0
		r := on(tx)
		o, err := r.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.BuyerID != buyer.ID {
			return ErrForbidden
		}
		if o.Status != StatusDelivered {
			return fmt.Errorf("%w: only delivered orders can be reviewed", ErrInvalidInput)
		}
		now := time.Now().UTC()
		for _, ri := range in {
			if ri.Rating <= 0 {
				continue
			}
			if !o.HasProduct(ri.ProductID) {
				return fmt.Errorf("%w: product %s is not in order %s", ErrInvalidInput, ri.ProductID, o.ID)
			}
			p, err := r.products.GetByID(ctx, ri.ProductID)
			if errors.Is(err, product.ErrNotFound) {
				log.Printf("[order] review %s: product %s is gone, skipping", o.ID, ri.ProductID)
				continue
			}
			if err != nil {
				return err
			}
			rev := product.Review{
				ID:        idgen.New(),
				BuyerID:   buyer.ID,
				BuyerName: buyer.Name,
				Rating:    ri.Rating,
				Comment:   ri.Comment,
				Date:      jsondate.Of(now),
			}
			if err := product.AddReview(p, rev); err != nil {
				return err
			}
			p.UpdatedAt = now
			if err := r.products.Save(ctx, p); err != nil {
				return fmt.Errorf("save product %s: %w", p.ID, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ListForBuyer returns the buyer's orders newest first. An empty status
// returns all of them.
func (s *Service) ListForBuyer(ctx context.Context, buyerID string, status Status) ([]Order, error) {
	list, err := NewKVRepo(s.db).ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return FilterStatus(list, status), nil
}

func (s *Service) ListForSeller(ctx context.Context, sellerID string, status Status) ([]Order, error) {
	list, err := NewKVRepo(s.db).ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return FilterStatus(list, status), nil
}

// Summary computes the seller dashboard figures. Revenue counts accepted and
// delivered orders; the rating is the mean of every product's average, unrated
// products counting as zero.
func (s *Service) Summary(ctx context.Context, sellerID string) (*SellerSummary, error) {
	products, err := product.NewKVRepo(s.db).List(ctx, product.Query{SellerID: sellerID})
	if err != nil {
		return nil, err
	}
	orders, err := NewKVRepo(s.db).ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	sum := &SellerSummary{TotalProducts: len(products), TotalRevenue: Revenue(orders)}
	sum.PendingOrders = len(FilterStatus(orders, StatusPending))
	if len(products) > 0 {
		total := 0.0
		for _, p := range products {
			total += p.AverageRating
		}
		sum.AverageRating = total / float64(len(products))
	}
	return sum, nil
}
