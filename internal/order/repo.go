package order

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/store"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	// Save inserts or replaces the order with the same id.
	Save(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Order, error)
}

type KVRepo struct{ db store.Tx }

func NewKVRepo(db store.Tx) *KVRepo { return &KVRepo{db: db} }

func (r *KVRepo) Save(ctx context.Context, o *Order) error {
	return store.PutJSON(ctx, r.db, store.Orders, o.ID, o)
}

func (r *KVRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	if err := store.GetJSON(ctx, r.db, store.Orders, id, &o); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *KVRepo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return r.list(ctx, func(o *Order) bool { return o.BuyerID == buyerID })
}

func (r *KVRepo) ListBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	return r.list(ctx, func(o *Order) bool { return o.SellerID == sellerID })
}

// list returns matching orders, newest first.
func (r *KVRepo) list(ctx context.Context, keep func(o *Order) bool) ([]Order, error) {
	all, err := store.ListJSON[Order](ctx, r.db, store.Orders)
	if err != nil {
		return nil, err
	}
	out := []Order{}
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate.Time) })
	return out, nil
}

// FilterStatus keeps orders in status s; an empty s keeps all.
func FilterStatus(os []Order, s Status) []Order {
	if s == "" {
		return os
	}
	out := []Order{}
	for _, o := range os {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}

// Revenue sums the totals of accepted and delivered orders.
func Revenue(orders []Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		if o.Status == StatusAccepted || o.Status == StatusDelivered {
			sum = sum.Add(o.TotalAmount)
		}
	}
	return sum
}
