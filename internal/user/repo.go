package user

import (
	"context"
	"errors"

	"github.com/MikeMC777/agromercado/internal/store"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")
)

type Repository interface {
	// Save inserts or replaces the user with the same id.
	Save(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	FindByName(ctx context.Context, name string, role Role) ([]User, error)
	List(ctx context.Context) ([]User, error)
}

// KVRepo stores users in the Users bucket. It works on a store or inside a
// transaction.
type KVRepo struct{ db store.Tx }

func NewKVRepo(db store.Tx) *KVRepo { return &KVRepo{db: db} }

func (r *KVRepo) Save(ctx context.Context, u *User) error {
	return store.PutJSON(ctx, r.db, store.Users, u.ID, u)
}

func (r *KVRepo) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := store.GetJSON(ctx, r.db, store.Users, id, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *KVRepo) FindByName(ctx context.Context, name string, role Role) ([]User, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []User
	for _, u := range all {
		if u.Name == name && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *KVRepo) List(ctx context.Context) ([]User, error) {
	return store.ListJSON[User](ctx, r.db, store.Users)
}
