package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/agromercado/internal/cart"
	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/store"
	"github.com/MikeMC777/agromercado/internal/user"
)

var buyer = &user.User{
	ID: "b1", Name: "Asha", Role: user.RoleBuyer,
	Profile: &user.Profile{Address: user.Address{Village: "Kondapur", Pincode: "500084", State: "Telangana"}},
}

type fixture struct {
	db       store.Store
	svc      *Service
	products *product.KVRepo
	cart     *cart.Service
}

func newFixture(t *testing.T, db store.Store) fixture {
	t.Helper()
	ctx := context.Background()
	products := product.NewKVRepo(db)
	require.NoError(t, products.Save(ctx, &product.Product{ID: "A", SellerID: "S1", Name: "Tomato", Price: decimal.NewFromInt(10), Quantity: 5}))
	require.NoError(t, products.Save(ctx, &product.Product{ID: "B", SellerID: "S2", Name: "Mango", Price: decimal.NewFromInt(5), Quantity: 10}))
	return fixture{db: db, svc: NewService(db), products: products, cart: cart.NewService(cart.NewKVRepo(db), products)}
}

func (f fixture) checkout(t *testing.T) []Order {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.Add(ctx, "A", 2)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "B", 3)
	require.NoError(t, err)
	orders, err := f.svc.Checkout(ctx, buyer)
	require.NoError(t, err)
	return orders
}

func TestCheckout_SplitsBySeller(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()

	orders := f.checkout(t)
	require.Len(t, orders, 2)

	assert.Equal(t, "S1", orders[0].SellerID)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(20)))
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "A", orders[0].Items[0].ProductID)

	assert.Equal(t, "S2", orders[1].SellerID)
	assert.True(t, orders[1].TotalAmount.Equal(decimal.NewFromInt(15)))

	for _, o := range orders {
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, "500084", o.BuyerAddress.Pincode)
		assert.True(t, o.TotalAmount.Equal(cart.Total(o.Items)))
	}

	items, err := f.cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	mine, err := f.svc.ListForBuyer(ctx, "b1", "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestCheckout_FollowsCartOrder(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()

	_, err := f.cart.Add(ctx, "B", 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "A", 1)
	require.NoError(t, err)

	orders, err := f.svc.Checkout(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "S2", orders[0].SellerID, "seller of the first line added comes first")
	assert.Equal(t, "S1", orders[1].SellerID)
}

func TestCheckout_Preconditions(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, buyer)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.cart.Add(ctx, "A", 1)
	require.NoError(t, err)
	_, err = f.svc.Checkout(ctx, &user.User{ID: "b2", Role: user.RoleBuyer})
	assert.ErrorIs(t, err, ErrAddressRequired)

	items, err := f.cart.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "failed checkout keeps the cart")
}

func TestAccept_FloorsStockAtZero(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()
	orders := f.checkout(t)

	// stock dropped below the ordered amount after checkout
	p, err := f.products.GetByID(ctx, "A")
	require.NoError(t, err)
	p.Quantity = 1
	require.NoError(t, f.products.Save(ctx, p))

	_, err = f.svc.Accept(ctx, "S2", orders[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	o, err := f.svc.Accept(ctx, "S1", orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)

	p, err = f.products.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)

	_, err = f.svc.Accept(ctx, "S1", orders[0].ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAccept_SkipsDeletedProduct(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()
	orders := f.checkout(t)

	_, err := f.products.Delete(ctx, "B")
	require.NoError(t, err)
	o, err := f.svc.Accept(ctx, "S2", orders[1].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)
}

func TestReject_KeepsStock(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()
	orders := f.checkout(t)

	_, err := f.svc.Reject(ctx, "S2", orders[1].ID)
	require.NoError(t, err)
	p, err := f.products.GetByID(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Quantity)

	_, err = f.svc.Deliver(ctx, "S2", orders[1].ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusAccepted))
	assert.True(t, CanTransition(StatusPending, StatusRejected))
	assert.True(t, CanTransition(StatusAccepted, StatusDelivered))
	assert.False(t, CanTransition(StatusPending, StatusDelivered))
	assert.False(t, CanTransition(StatusRejected, StatusAccepted))
	assert.False(t, CanTransition(StatusDelivered, StatusPending))
}

func TestReview_DeliveredOnly(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()
	orders := f.checkout(t)
	id := orders[0].ID

	_, err := f.svc.Review(ctx, buyer, id, []ReviewInput{{ProductID: "A", Rating: 4}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Accept(ctx, "S1", id)
	require.NoError(t, err)
	_, err = f.svc.Deliver(ctx, "S1", id)
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, &user.User{ID: "other"}, id, []ReviewInput{{ProductID: "A", Rating: 4}})
	assert.ErrorIs(t, err, ErrForbidden)

	n, err := f.svc.Review(ctx, buyer, id, []ReviewInput{{ProductID: "A", Rating: 4, Comment: "fresh"}, {ProductID: "A", Rating: 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = f.svc.Review(ctx, buyer, id, []ReviewInput{{ProductID: "A", Rating: 1}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := f.products.GetByID(ctx, "A")
	require.NoError(t, err)
	require.Len(t, p.Reviews, 2)
	assert.InDelta(t, 2.5, p.AverageRating, 1e-9)

	_, err = f.svc.Review(ctx, buyer, id, []ReviewInput{{ProductID: "A", Rating: 9}})
	assert.ErrorIs(t, err, product.ErrInvalidRating)
	_, err = f.svc.Review(ctx, buyer, id, []ReviewInput{{ProductID: "B", Rating: 3}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, store.NewMemory())
	ctx := context.Background()
	first := f.checkout(t)
	second := f.checkout(t)

	_, err := f.svc.Accept(ctx, "S1", first[0].ID)
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, "S1", second[0].ID)
	require.NoError(t, err)

	p, err := f.products.GetByID(ctx, "A")
	require.NoError(t, err)
	p.AverageRating = 4
	require.NoError(t, f.products.Save(ctx, p))
	require.NoError(t, f.products.Save(ctx, &product.Product{ID: "C", SellerID: "S1", Name: "Okra", Price: decimal.NewFromInt(1)}))

	sum, err := f.svc.Summary(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalProducts)
	assert.True(t, sum.TotalRevenue.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 0, sum.PendingOrders)
	assert.InDelta(t, 2.0, sum.AverageRating, 1e-9)

	sum, err = f.svc.Summary(ctx, "S2")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PendingOrders)
	assert.True(t, sum.TotalRevenue.IsZero())
}

var errDisk = errors.New("disk full")

// failingStore rejects writes to one bucket inside transactions.
type failingStore struct {
	store.Store
	bucket store.Bucket
	armed  bool
}

func (s *failingStore) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.Update(ctx, func(tx store.Tx) error {
		if !s.armed {
			return fn(tx)
		}
		return fn(failingTx{Tx: tx, bucket: s.bucket})
	})
}

type failingTx struct {
	store.Tx
	bucket store.Bucket
}

func (t failingTx) Put(ctx context.Context, b store.Bucket, id string, data []byte) error {
	if b == t.bucket {
		return errDisk
	}
	return t.Tx.Put(ctx, b, id, data)
}

func TestAccept_IsAtomic(t *testing.T) {
	db := &failingStore{Store: store.NewMemory(), bucket: store.Orders}
	f := newFixture(t, db)
	ctx := context.Background()
	orders := f.checkout(t)

	db.armed = true
	_, err := f.svc.Accept(ctx, "S1", orders[0].ID)
	assert.ErrorIs(t, err, errDisk)
	db.armed = false

	p, err := f.products.GetByID(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Quantity, "stock unchanged when the order write fails")

	o, err := NewKVRepo(db).GetByID(ctx, orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
}
