package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS records (
	bucket     TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (bucket, id)
)`

type Postgres struct{ db *pgxpool.Pool }

// pgRunner is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgRunner interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	log.Printf("[store] postgres ready")
	return &Postgres{db: pool}, nil
}

// NewPostgres wraps an existing pool; the schema must already exist.
func NewPostgres(db *pgxpool.Pool) *Postgres { return &Postgres{db: db} }

func (p *Postgres) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	return pgView{p.db}.Get(ctx, b, id)
}

func (p *Postgres) List(ctx context.Context, b Bucket) ([]Record, error) {
	return pgView{p.db}.List(ctx, b)
}

func (p *Postgres) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	return pgView{p.db}.Put(ctx, b, id, data)
}

func (p *Postgres) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	return pgView{p.db}.Delete(ctx, b, id)
}

func (p *Postgres) Clear(ctx context.Context, b Bucket) error {
	return pgView{p.db}.Clear(ctx, b)
}

func (p *Postgres) Update(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(pgView{tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "40001" {
			return fmt.Errorf("%w: %v", ErrTxConflict, err)
		}
		return err
	}
	return nil
}

func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}

type pgView struct{ r pgRunner }

func (v pgView) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	if err := check(b, id); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var data []byte
	err := v.r.QueryRow(ctx, `SELECT data FROM records WHERE bucket=$1 AND id=$2`, string(b), id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (v pgView) List(ctx context.Context, b Bucket) ([]Record, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := v.r.Query(ctx, `SELECT id, data FROM records WHERE bucket=$1 ORDER BY id`, string(b))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Data); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (v pgView) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	if err := check(b, id); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := v.r.Exec(ctx, `
		INSERT INTO records (bucket, id, data, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (bucket, id) DO UPDATE
		SET data = EXCLUDED.data, updated_at = NOW()
	`, string(b), id, string(data))
	return err
}

func (v pgView) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	if err := check(b, id); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := v.r.Exec(ctx, `DELETE FROM records WHERE bucket=$1 AND id=$2`, string(b), id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (v pgView) Clear(ctx context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := v.r.Exec(ctx, `DELETE FROM records WHERE bucket=$1`, string(b))
	return err
}
