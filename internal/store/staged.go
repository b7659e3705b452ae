package store

import (
	"context"
	"errors"
)

// staged buffers the writes of a transaction on top of a read view and
// replays them on commit. Backends without native transactions use it.
type staged struct {
	base    Tx
	writes  map[Bucket]map[string][]byte // nil value marks a delete
	cleared map[Bucket]bool
}

func newStaged(base Tx) *staged {
	return &staged{
		base:    base,
		writes:  make(map[Bucket]map[string][]byte),
		cleared: make(map[Bucket]bool),
	}
}

func (s *staged) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	if err := check(b, id); err != nil {
		return nil, err
	}
	if w, ok := s.writes[b][id]; ok {
		if w == nil {
			return nil, ErrNotFound
		}
		return clone(w), nil
	}
	if s.cleared[b] {
		return nil, ErrNotFound
	}
	return s.base.Get(ctx, b, id)
}

func (s *staged) List(ctx context.Context, b Bucket) ([]Record, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	merged := make(map[string][]byte)
	if !s.cleared[b] {
		recs, err := s.base.List(ctx, b)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			merged[r.ID] = r.Data
		}
	}
	for id, w := range s.writes[b] {
		if w == nil {
			delete(merged, id)
			continue
		}
		merged[id] = clone(w)
	}
	out := make([]Record, 0, len(merged))
	for id, data := range merged {
		out = append(out, Record{ID: id, Data: data})
	}
	sortRecords(out)
	return out, nil
}

func (s *staged) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	if err := check(b, id); err != nil {
		return err
	}
	s.bucket(b)[id] = clone(data)
	return nil
}

func (s *staged) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	_, err := s.Get(ctx, b, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}
	s.bucket(b)[id] = nil
	return err == nil, nil
}

func (s *staged) Clear(ctx context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	s.cleared[b] = true
	s.writes[b] = make(map[string][]byte)
	return nil
}

func (s *staged) bucket(b Bucket) map[string][]byte {
	m, ok := s.writes[b]
	if !ok {
		m = make(map[string][]byte)
		s.writes[b] = m
	}
	return m
}

// apply replays the buffered writes onto dst: clears first, then puts and deletes.
func (s *staged) apply(ctx context.Context, dst Tx) error {
	for _, b := range Buckets {
		if s.cleared[b] {
			if err := dst.Clear(ctx, b); err != nil {
				return err
			}
		}
		for id, w := range s.writes[b] {
			if w == nil {
				if _, err := dst.Delete(ctx, b, id); err != nil {
					return err
				}
				continue
			}
			if err := dst.Put(ctx, b, id, w); err != nil {
				return err
			}
		}
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
