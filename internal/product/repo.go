// File: internal/product/repo.go
// Package product provides the repository and service for seller listings and
// their reviews.
package product

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/agromercado/internal/store"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Sort string

const (
	SortName      Sort = "name"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
)

type Query struct {
	Q        string
	Category Category
	SellerID string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     Sort
	Limit    int
	Offset   int
}

type Repository interface {
	// Save inserts or replaces the product with the same id.
	Save(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type KVRepo struct{ db store.Tx }

func NewKVRepo(db store.Tx) *KVRepo { return &KVRepo{db: db} }

func (r *KVRepo) Save(ctx context.Context, p *Product) error {
	return store.PutJSON(ctx, r.db, store.Products, p.ID, p)
}

func (r *KVRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := store.GetJSON(ctx, r.db, store.Products, id, &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *KVRepo) List(ctx context.Context, q Query) ([]Product, error) {
	all, err := store.ListJSON[Product](ctx, r.db, store.Products)
	if err != nil {
		return nil, err
	}
	out := Filter(all, q)
	SortBy(out, q.Sort)

	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > len(out) {
		return []Product{}, nil
	}
	end := len(out)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return out[start:end], nil
}

func (r *KVRepo) Delete(ctx context.Context, id string) (bool, error) {
	return r.db.Delete(ctx, store.Products, id)
}

// Filter keeps the products matching every set field of q.
func Filter(ps []Product, q Query) []Product {
	search := strings.ToLower(strings.TrimSpace(q.Q))
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.SellerID != "" && p.SellerID != q.SellerID {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func SortBy(ps []Product, by Sort) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		switch by {
		case SortPriceLow:
			return a.Price.LessThan(b.Price)
		case SortPriceHigh:
			return a.Price.GreaterThan(b.Price)
		case SortRating:
			return a.AverageRating > b.AverageRating
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	})
}
