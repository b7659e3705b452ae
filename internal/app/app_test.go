package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/agromercado/internal/config"
	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/store"
)

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cases := []config.Config{
		{StoreDriver: "memory"},
		{StoreDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "m.db")},
		{StoreDriver: "redis", RedisAddr: mr.Addr()},
	}
	for _, cfg := range cases {
		t.Run(cfg.StoreDriver, func(t *testing.T) {
			a, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer a.Close()
			_, err = a.Products.List(ctx, product.Query{})
			assert.NoError(t, err)
		})
	}

	_, err := Open(ctx, config.Config{StoreDriver: "mongo"})
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}
