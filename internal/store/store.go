// Package store provides keyed record storage over the marketplace buckets.
//
// Every backend stores opaque JSON documents addressed by (bucket, id). Callers
// that need several writes to land together use Store.Update.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownBucket = errors.New("unknown bucket")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrTxConflict    = errors.New("transaction conflict")
	errEmptyID       = errors.New("empty record id")
)

// Bucket names a collection. The values are the keys the browser front-end used.
type Bucket string

const (
	Users       Bucket = "marketplace_users"
	CurrentUser Bucket = "marketplace_current_user"
	Products    Bucket = "marketplace_products"
	Orders      Bucket = "marketplace_orders"
	Cart        Bucket = "marketplace_cart"
)

// Buckets lists every bucket in a stable order.
var Buckets = []Bucket{Users, CurrentUser, Products, Orders, Cart}

func (b Bucket) Valid() bool {
	for _, k := range Buckets {
		if k == b {
			return true
		}
	}
	return false
}

type Record struct {
	ID   string
	Data []byte
}

// Tx is the read/write surface shared by a Store and an open transaction.
type Tx interface {
	Get(ctx context.Context, b Bucket, id string) ([]byte, error)
	List(ctx context.Context, b Bucket) ([]Record, error)
	Put(ctx context.Context, b Bucket, id string, data []byte) error
	Delete(ctx context.Context, b Bucket, id string) (bool, error)
	Clear(ctx context.Context, b Bucket) error
}

type Store interface {
	Tx
	// Update runs fn in a transaction. Writes made through the Tx are applied
	// only if fn returns nil.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

func check(b Bucket, id string) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, b)
	}
	if id == "" {
		return errEmptyID
	}
	return nil
}

func checkBucket(b Bucket) error {
	if !b.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, b)
	}
	return nil
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
}
