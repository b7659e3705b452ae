package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/agromercado/internal/store"
)

func TestKVRepo_SaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(store.NewMemory())
	u := &User{ID: "u1", Name: "Ravi", Mobile: "1", Role: RoleSeller}

	require.NoError(t, repo.Save(ctx, u))
	u.Mobile = "2"
	require.NoError(t, repo.Save(ctx, u))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].Mobile)

	found, err := repo.FindByName(ctx, "Ravi", RoleSeller)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = repo.FindByName(ctx, "Ravi", RoleBuyer)
	require.NoError(t, err)
	assert.Empty(t, found)
}
