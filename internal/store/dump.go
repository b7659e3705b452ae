package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
)

// CurrentUserID is the only id used in the CurrentUser bucket.
const CurrentUserID = "current"

// Dump mirrors a browser localStorage snapshot: every bucket key maps to its
// serialized value. Collections are JSON arrays, the current user is a single
// JSON object.
type Dump map[string]string

type ImportStats map[Bucket]int

// idField is the document field each collection is keyed by.
var idField = map[Bucket]string{
	Users:    "id",
	Products: "id",
	Orders:   "id",
	Cart:     "productId",
}

// seqField is the position field of collections whose array order matters.
// Browser records have none; import numbers them by array position.
var seqField = map[Bucket]string{
	Cart: "seq",
}

// bySeq orders records by their numeric seq field, keeping id order on ties.
func bySeq(recs []Record, field string) {
	seqs := make(map[string]float64, len(recs))
	for _, r := range recs {
		var doc map[string]json.RawMessage
		var n float64
		if json.Unmarshal(r.Data, &doc) == nil {
			_ = json.Unmarshal(doc[field], &n)
		}
		seqs[r.ID] = n
	}
	sort.SliceStable(recs, func(i, j int) bool { return seqs[recs[i].ID] < seqs[recs[j].ID] })
}

func Export(ctx context.Context, tx Tx) (Dump, error) {
	d := Dump{}
	for _, b := range Buckets {
		recs, err := tx.List(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", b, err)
		}
		if b == CurrentUser {
			for _, r := range recs {
				if r.ID == CurrentUserID {
					d[string(b)] = string(r.Data)
				}
			}
			continue
		}
		if len(recs) == 0 {
			continue
		}
		if f, ok := seqField[b]; ok {
			bySeq(recs, f)
		}
		arr := make([]json.RawMessage, 0, len(recs))
		for _, r := range recs {
			arr = append(arr, json.RawMessage(r.Data))
		}
		data, err := json.Marshal(arr)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", b, err)
		}
		d[string(b)] = string(data)
	}
	return d, nil
}

// Import replaces every bucket with the content of d in one transaction.
// Unknown keys are ignored; a value that does not parse imports as empty.
func Import(ctx context.Context, s Store, d Dump) (ImportStats, error) {
	stats := ImportStats{}
	err := s.Update(ctx, func(tx Tx) error {
		for _, b := range Buckets {
			stats[b] = 0
			if err := tx.Clear(ctx, b); err != nil {
				return err
			}
			raw, ok := d[string(b)]
			if !ok || raw == "" {
				continue
			}
			n, err := importBucket(ctx, tx, b, raw)
			if err != nil {
				return err
			}
			stats[b] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func importBucket(ctx context.Context, tx Tx, b Bucket, raw string) (int, error) {
	if b == CurrentUser {
		if !json.Valid([]byte(raw)) || raw == "null" {
			log.Printf("[store] import: corrupt value for %s, treating as empty", b)
			return 0, nil
		}
		return 1, tx.Put(ctx, b, CurrentUserID, []byte(raw))
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[store] import: corrupt value for %s, treating as empty: %v", b, err)
		return 0, nil
	}
	n := 0
	for i, item := range items {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(item, &doc); err != nil {
			continue
		}
		var id string
		if err := json.Unmarshal(doc[idField[b]], &id); err != nil || id == "" {
			log.Printf("[store] import: %s record without %s, skipped", b, idField[b])
			continue
		}
		if f, ok := seqField[b]; ok {
			if _, has := doc[f]; !has {
				doc[f] = json.RawMessage(strconv.Itoa(i + 1))
				data, err := json.Marshal(doc)
				if err != nil {
					return n, err
				}
				item = data
			}
		}
		if err := tx.Put(ctx, b, id, item); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
