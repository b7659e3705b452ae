package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/agromercado/internal/jsondate"
	"github.com/MikeMC777/agromercado/internal/store"
)

func TestKVRepo_SaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(store.NewMemory())
	o := &Order{ID: "o1", BuyerID: "b1", SellerID: "s1", Status: StatusPending, TotalAmount: decimal.NewFromInt(20)}

	require.NoError(t, repo.Save(ctx, o))
	o.Status = StatusAccepted
	require.NoError(t, repo.Save(ctx, o))

	list, err := repo.ListBySeller(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusAccepted, list[0].Status)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVRepo_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(store.NewMemory())
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, &Order{ID: "a", BuyerID: "b1", OrderDate: jsondate.Of(day)}))
	require.NoError(t, repo.Save(ctx, &Order{ID: "b", BuyerID: "b1", OrderDate: jsondate.Of(day.AddDate(0, 0, 1))}))
	require.NoError(t, repo.Save(ctx, &Order{ID: "c", BuyerID: "b2", OrderDate: jsondate.Of(day.AddDate(0, 0, 2))}))

	list, err := repo.ListByBuyer(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestRevenue(t *testing.T) {
	orders := []Order{
		{Status: StatusPending, TotalAmount: decimal.NewFromInt(7)},
		{Status: StatusAccepted, TotalAmount: decimal.RequireFromString("10.50")},
		{Status: StatusDelivered, TotalAmount: decimal.NewFromInt(5)},
		{Status: StatusRejected, TotalAmount: decimal.NewFromInt(100)},
	}
	assert.True(t, Revenue(orders).Equal(decimal.RequireFromString("15.50")))
	assert.True(t, Revenue(nil).IsZero())
}
