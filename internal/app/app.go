// Package app wires the store and the services together.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/MikeMC777/agromercado/internal/cart"
	"github.com/MikeMC777/agromercado/internal/config"
	"github.com/MikeMC777/agromercado/internal/order"
	"github.com/MikeMC777/agromercado/internal/product"
	"github.com/MikeMC777/agromercado/internal/session"
	"github.com/MikeMC777/agromercado/internal/store"
	"github.com/MikeMC777/agromercado/internal/user"
)

type App struct {
	Store    store.Store
	Users    *user.Service
	Session  *session.Manager
	Products *product.Service
	Cart     *cart.Service
	Orders   *order.Service
}

func New(db store.Store, bcryptCost int) *App {
	products := product.NewKVRepo(db)
	return &App{
		Store:    db,
		Users:    user.NewService(user.NewKVRepo(db), bcryptCost),
		Session:  session.NewManager(db),
		Products: product.NewService(products),
		Cart:     cart.NewService(cart.NewKVRepo(db), products),
		Orders:   order.NewService(db),
	}
}

// OpenStore connects the backend named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemory(), nil
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.SQLitePath)
	case "postgres":
		return store.OpenPostgres(ctx, cfg.PostgresDSN)
	case "redis":
		return store.OpenRedis(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, cfg.StoreDriver)
}

func Open(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[app] store=%s target=%s", cfg.StoreDriver, cfg.Target())
	return New(db, cfg.BcryptCost), nil
}

func (a *App) Close() error { return a.Store.Close() }
