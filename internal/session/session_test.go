package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/agromercado/internal/store"
	"github.com/MikeMC777/agromercado/internal/user"
)

func TestLoginCurrentLogout(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()
	m := NewManager(db)

	_, err := m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	buyer := &user.User{ID: "b1", Name: "Asha", Role: user.RoleBuyer}
	require.NoError(t, m.Login(ctx, buyer))
	got, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b1", got.ID)

	_, err = m.Require(ctx, user.RoleSeller)
	assert.Error(t, err)
	_, err = m.Require(ctx, user.RoleBuyer)
	assert.NoError(t, err)

	require.NoError(t, db.Put(ctx, store.Cart, "p1", []byte(`{"productId":"p1","quantity":1}`)))

	// switching user keeps the cart
	require.NoError(t, m.Login(ctx, &user.User{ID: "b2", Role: user.RoleBuyer}))
	recs, err := db.List(ctx, store.Cart)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	require.NoError(t, m.Logout(ctx))
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	recs, err = db.List(ctx, store.Cart)
	require.NoError(t, err)
	assert.Empty(t, recs, "logout clears the cart")
}

func TestRefresh_OnlyForLoggedInUser(t *testing.T) {
	ctx := context.Background()
	m := NewManager(store.NewMemory())
	require.NoError(t, m.Login(ctx, &user.User{ID: "s1", Name: "Ravi"}))

	require.NoError(t, m.Refresh(ctx, &user.User{ID: "other", Name: "X"}))
	cur, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1", cur.ID)

	require.NoError(t, m.Refresh(ctx, &user.User{ID: "s1", Name: "Ravi K"}))
	cur, err = m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ravi K", cur.Name)
}
