package cart

import (
	"context"
	"errors"
	"sort"

	"github.com/MikeMC777/agromercado/internal/store"
)

var ErrNotFound = errors.New("item not in cart")

type Repository interface {
	Items(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, productID string) (*Item, error)
	// Save inserts or replaces the line for it.ProductID.
	Save(ctx context.Context, it *Item) error
	Remove(ctx context.Context, productID string) (bool, error)
	Clear(ctx context.Context) error
}

// KVRepo keeps cart lines in the Cart bucket keyed by product id.
type KVRepo struct{ db store.Tx }

func NewKVRepo(db store.Tx) *KVRepo { return &KVRepo{db: db} }

// Items returns the lines in the order they were added.
func (r *KVRepo) Items(ctx context.Context) ([]Item, error) {
	items, err := store.ListJSON[Item](ctx, r.db, store.Cart)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })
	return items, nil
}

func (r *KVRepo) Get(ctx context.Context, productID string) (*Item, error) {
	var it Item
	if err := store.GetJSON(ctx, r.db, store.Cart, productID, &it); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *KVRepo) Save(ctx context.Context, it *Item) error {
	return store.PutJSON(ctx, r.db, store.Cart, it.ProductID, it)
}

func (r *KVRepo) Remove(ctx context.Context, productID string) (bool, error) {
	return r.db.Delete(ctx, store.Cart, productID)
}

func (r *KVRepo) Clear(ctx context.Context) error {
	return r.db.Clear(ctx, store.Cart)
}
