package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	open func(t *testing.T) Store
}

func backends() []backend {
	return []backend{
		{"memory", func(t *testing.T) Store { return NewMemory() }},
		{"sqlite", func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "market.db"))
			require.NoError(t, err)
			return s
		}},
		{"redis", func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			s, err := OpenRedis(context.Background(), &redis.Options{Addr: mr.Addr()})
			require.NoError(t, err)
			return s
		}},
		{"postgres", openTestPostgres},
	}
}

// openTestPostgres runs against POSTGRES_DSN and starts from empty buckets.
func openTestPostgres(t *testing.T) Store {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	for _, b := range Buckets {
		require.NoError(t, s.Clear(ctx, b))
	}
	return s
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	for _, b := range backends() {
		b := b
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			t.Cleanup(func() { _ = s.Close() })
			fn(t, s)
		})
	}
}

func TestPutGet_Upsert(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.Get(ctx, Products, "p1")
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Put(ctx, Products, "p1", []byte(`{"id":"p1","name":"tomato"}`)))
		require.NoError(t, s.Put(ctx, Products, "p1", []byte(`{"id":"p1","name":"onion"}`)))

		got, err := s.Get(ctx, Products, "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"p1","name":"onion"}`, string(got))

		recs, err := s.List(ctx, Products)
		require.NoError(t, err)
		assert.Len(t, recs, 1, "saving the same id twice must not duplicate")
	})
}

func TestList_SortedAndEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		recs, err := s.List(ctx, Orders)
		require.NoError(t, err)
		assert.Empty(t, recs)

		for _, id := range []string{"c", "a", "b"} {
			require.NoError(t, s.Put(ctx, Orders, id, []byte(`{}`)))
		}
		recs, err = s.List(ctx, Orders)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{recs[0].ID, recs[1].ID, recs[2].ID})

		// buckets are independent
		other, err := s.List(ctx, Users)
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}

func TestDeleteAndClear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Put(ctx, Cart, "a", []byte(`{}`)))
		require.NoError(t, s.Put(ctx, Cart, "b", []byte(`{}`)))

		ok, err := s.Delete(ctx, Cart, "a")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, Cart, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Clear(ctx, Cart))
		recs, err := s.List(ctx, Cart)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestUpdate_CommitAndRollback(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.Put(ctx, Products, "p1", []byte(`{"q":5}`)))
		require.NoError(t, s.Put(ctx, Cart, "p1", []byte(`{}`)))

		boom := errors.New("boom")
		err := s.Update(ctx, func(tx Tx) error {
			if err := tx.Put(ctx, Products, "p1", []byte(`{"q":0}`)); err != nil {
				return err
			}
			if err := tx.Clear(ctx, Cart); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.Get(ctx, Products, "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"q":5}`, string(got), "failed update must not leak writes")
		recs, err := s.List(ctx, Cart)
		require.NoError(t, err)
		assert.Len(t, recs, 1)

		err = s.Update(ctx, func(tx Tx) error {
			if err := tx.Put(ctx, Products, "p1", []byte(`{"q":3}`)); err != nil {
				return err
			}
			// reads inside the transaction see its own writes
			data, err := tx.Get(ctx, Products, "p1")
			if err != nil {
				return err
			}
			assert.JSONEq(t, `{"q":3}`, string(data))

			if err := tx.Clear(ctx, Cart); err != nil {
				return err
			}
			recs, err := tx.List(ctx, Cart)
			if err != nil {
				return err
			}
			assert.Empty(t, recs)
			return tx.Put(ctx, Orders, "o1", []byte(`{}`))
		})
		require.NoError(t, err)

		got, err = s.Get(ctx, Products, "p1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"q":3}`, string(got))
		_, err = s.Get(ctx, Orders, "o1")
		require.NoError(t, err)
		recs, err = s.List(ctx, Cart)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestUnknownBucket(t *testing.T) {
	s := NewMemory()
	_, err := s.Get(context.Background(), Bucket("nope"), "x")
	assert.ErrorIs(t, err, ErrUnknownBucket)
	assert.Error(t, s.Put(context.Background(), Users, "", []byte(`{}`)))
}

func TestListJSON_SkipsCorrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Put(ctx, Users, "a", []byte(`{"id":"a"}`)))
	require.NoError(t, s.Put(ctx, Users, "b", []byte(`{not json`)))

	type doc struct {
		ID string `json:"id"`
	}
	got, err := ListJSON[doc](ctx, s, Users)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
