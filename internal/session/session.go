// Package session tracks the logged-in user in the CurrentUser bucket.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikeMC777/agromercado/internal/store"
	"github.com/MikeMC777/agromercado/internal/user"
)

var ErrNoSession = errors.New("not logged in")

type Manager struct {
	db store.Store
}

func NewManager(db store.Store) *Manager { return &Manager{db: db} }

// Login makes u the current user. The cart is left as it is.
func (m *Manager) Login(ctx context.Context, u *user.User) error {
	return store.PutJSON(ctx, m.db, store.CurrentUser, store.CurrentUserID, u)
}

func (m *Manager) Current(ctx context.Context) (*user.User, error) {
	var u user.User
	err := store.GetJSON(ctx, m.db, store.CurrentUser, store.CurrentUserID, &u)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		// an unreadable slot counts as logged out
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return &u, nil
}

// Require returns the current user if it has the given role.
func (m *Manager) Require(ctx context.Context, role user.Role) (*user.User, error) {
	u, err := m.Current(ctx)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, fmt.Errorf("this action needs a %s account, logged in as %s", role, u.Role)
	}
	return u, nil
}

// Refresh rewrites the session copy after u was edited, if u is logged in.
func (m *Manager) Refresh(ctx context.Context, u *user.User) error {
	cur, err := m.Current(ctx)
	if err != nil || cur.ID != u.ID {
		return nil
	}
	return m.Login(ctx, u)
}

// Logout removes the current user and empties the cart.
func (m *Manager) Logout(ctx context.Context) error {
	return m.db.Update(ctx, func(tx store.Tx) error {
		if _, err := tx.Delete(ctx, store.CurrentUser, store.CurrentUserID); err != nil {
			return err
		}
		return tx.Clear(ctx, store.Cart)
	})
}
