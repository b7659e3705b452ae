package store

import (
	"context"
	"sync"
)

// Memory keeps every bucket in process memory. Data is lost on Close.
type Memory struct {
	mu      sync.RWMutex
	buckets map[Bucket]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[Bucket]map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memView{m}.Get(ctx, b, id)
}

func (m *Memory) List(ctx context.Context, b Bucket) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memView{m}.List(ctx, b)
}

func (m *Memory) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memView{m}.Put(ctx, b, id, data)
}

func (m *Memory) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memView{m}.Delete(ctx, b, id)
}

func (m *Memory) Clear(ctx context.Context, b Bucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memView{m}.Clear(ctx, b)
}

func (m *Memory) Update(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := newStaged(memView{m})
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.apply(ctx, memView{m})
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets = make(map[Bucket]map[string][]byte)
	return nil
}

// memView is the unlocked implementation; callers hold m.mu.
type memView struct{ m *Memory }

func (v memView) Get(_ context.Context, b Bucket, id string) ([]byte, error) {
	if err := check(b, id); err != nil {
		return nil, err
	}
	data, ok := v.m.buckets[b][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(data), nil
}

func (v memView) List(_ context.Context, b Bucket) ([]Record, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(v.m.buckets[b]))
	for id, data := range v.m.buckets[b] {
		out = append(out, Record{ID: id, Data: clone(data)})
	}
	sortRecords(out)
	return out, nil
}

func (v memView) Put(_ context.Context, b Bucket, id string, data []byte) error {
	if err := check(b, id); err != nil {
		return err
	}
	bk, ok := v.m.buckets[b]
	if !ok {
		bk = make(map[string][]byte)
		v.m.buckets[b] = bk
	}
	bk[id] = clone(data)
	return nil
}

func (v memView) Delete(_ context.Context, b Bucket, id string) (bool, error) {
	if err := check(b, id); err != nil {
		return false, err
	}
	if _, ok := v.m.buckets[b][id]; !ok {
		return false, nil
	}
	delete(v.m.buckets[b], id)
	return true, nil
}

func (v memView) Clear(_ context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	delete(v.m.buckets, b)
	return nil
}
