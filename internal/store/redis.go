package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const redisMaxRetries = 3

// Redis keeps one hash per bucket: HSET <bucket> <id> <json>.
type Redis struct{ rdb *redis.Client }

func OpenRedis(ctx context.Context, opts *redis.Options) (*Redis, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[store] redis ready addr=%s db=%d", opts.Addr, opts.DB)
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	return redisView{r.rdb}.Get(ctx, b, id)
}

func (r *Redis) List(ctx context.Context, b Bucket) ([]Record, error) {
	return redisView{r.rdb}.List(ctx, b)
}

func (r *Redis) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	return redisView{r.rdb}.Put(ctx, b, id, data)
}

func (r *Redis) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	return redisView{r.rdb}.Delete(ctx, b, id)
}

func (r *Redis) Clear(ctx context.Context, b Bucket) error {
	return redisView{r.rdb}.Clear(ctx, b)
}

// Update watches every bucket key, stages the writes of fn and commits them
// with MULTI/EXEC. A concurrent write to any bucket aborts the attempt and fn
// runs again.
func (r *Redis) Update(ctx context.Context, fn func(tx Tx) error) error {
	keys := make([]string, len(Buckets))
	for i, b := range Buckets {
		keys[i] = string(b)
	}

	for attempt := 0; attempt < redisMaxRetries; attempt++ {
		err := r.rdb.Watch(ctx, func(rtx *redis.Tx) error {
			tx := newStaged(redisView{rtx})
			if err := fn(tx); err != nil {
				return err
			}
			_, err := rtx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				return tx.apply(ctx, redisView{p})
			})
			return err
		}, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			log.Printf("[store] redis tx conflict attempt=%d", attempt+1)
			continue
		}
		return err
	}
	return ErrTxConflict
}

func (r *Redis) Close() error { return r.rdb.Close() }

// hashCmds is the part of the client, Tx and pipeline APIs the view needs.
type hashCmds interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisView struct{ c hashCmds }

func (v redisView) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	if err := check(b, id); err != nil {
		return nil, err
	}
	data, err := v.c.HGet(ctx, string(b), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (v redisView) List(ctx context.Context, b Bucket) ([]Record, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	all, err := v.c.HGetAll(ctx, string(b)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(all))
	for id, data := range all {
		out = append(out, Record{ID: id, Data: []byte(data)})
	}
	sortRecords(out)
	return out, nil
}

func (v redisView) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	if err := check(b, id); err != nil {
		return err
	}
	return v.c.HSet(ctx, string(b), id, data).Err()
}

// Delete reports false inside a pipeline since the reply is not known yet.
func (v redisView) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	if err := check(b, id); err != nil {
		return false, err
	}
	n, err := v.c.HDel(ctx, string(b), id).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (v redisView) Clear(ctx context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	return v.c.Del(ctx, string(b)).Err()
}
