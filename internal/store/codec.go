package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

func GetJSON(ctx context.Context, tx Tx, b Bucket, id string, dst any) error {
	data, err := tx.Get(ctx, b, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s/%s: %w", b, id, err)
	}
	return nil
}

func PutJSON(ctx context.Context, tx Tx, b Bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", b, id, err)
	}
	return tx.Put(ctx, b, id, data)
}

// ListJSON decodes every record of a bucket. Records that do not decode are
// logged and skipped.
func ListJSON[T any](ctx context.Context, tx Tx, b Bucket) ([]T, error) {
	recs, err := tx.List(ctx, b)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		var v T
		if err := json.Unmarshal(r.Data, &v); err != nil {
			log.Printf("[store] skipping corrupt record bucket=%s id=%s err=%v", b, r.ID, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
