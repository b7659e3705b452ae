package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/store"
)

// browserDump is shaped like the localStorage of the web app: locale dates,
// numeric prices, base36 ids and no timestamps on products or users.
var browserDump = store.Dump{
	"marketplace_users": `[
		{"id":"lq8s1","name":"Ravi","mobile":"9000000001","password":"pw","userType":"seller"},
		{"id":"lq8s2","name":"Asha","mobile":"9000000002","password":"pw","userType":"buyer",
		 "profile":{"address":{"village":"Kondapur","pincode":"500084","mandal":"Rangareddy","district":"","state":"Telangana"}}}
	]`,
	"marketplace_products": `[
		{"id":"p1","sellerId":"lq8s1","sellerName":"Ravi","name":"Tomato","category":"vegetables",
		 "price":10,"quantity":5,"image":"","description":"",
		 "reviews":[{"id":"r1","buyerId":"lq8s2","buyerName":"Asha","rating":4,"comment":"good","date":"10/17/2026"}],
		 "averageRating":4}
	]`,
	"marketplace_orders": `[
		{"id":"o1","buyerId":"lq8s2","buyerName":"Asha","sellerId":"lq8s1",
		 "items":[{"productId":"p1","quantity":2,"product":{"id":"p1","sellerId":"lq8s1","name":"Tomato","price":10,"quantity":5}}],
		 "totalAmount":20,"status":"pending","orderDate":"10/17/2026",
		 "buyerAddress":{"village":"Kondapur","pincode":"500084","mandal":"Rangareddy","district":"","state":"Telangana"}}
	]`,
}

func TestImportedBrowserData_IsUsable(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemory()
	stats, err := store.Import(ctx, db, browserDump)
	require.NoError(t, err)
	assert.Equal(t, 1, stats[store.Products])
	assert.Equal(t, 1, stats[store.Orders])

	products, err := product.NewKVRepo(db).List(ctx, product.Query{})
	require.NoError(t, err)
	require.Len(t, products, 1, "reviewed product must survive the import")
	require.Len(t, products[0].Reviews, 1)
	assert.True(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC).Equal(products[0].Reviews[0].Date.Time))

	svc := NewService(db)
	incoming, err := svc.ListForSeller(ctx, "lq8s1", "")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, 2026, incoming[0].OrderDate.Year())

	o, err := svc.Accept(ctx, "lq8s1", "o1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)

	p, err := product.NewKVRepo(db).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity)
	assert.Len(t, p.Reviews, 1)
}
