package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	bucket     TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (bucket, id)
)`

// SQLite stores records in a single-file database, the local counterpart of
// the browser's storage.
type SQLite struct{ db *sql.DB }

// sqlRunner is satisfied by both *sql.DB and *sql.Tx.
type sqlRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path + "?_busy_timeout=5000&_foreign_keys=1"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	log.Printf("[store] sqlite ready path=%s", path)
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	return sqliteView{s.db}.Get(ctx, b, id)
}

func (s *SQLite) List(ctx context.Context, b Bucket) ([]Record, error) {
	return sqliteView{s.db}.List(ctx, b)
}

func (s *SQLite) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	return sqliteView{s.db}.Put(ctx, b, id, data)
}

func (s *SQLite) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	return sqliteView{s.db}.Delete(ctx, b, id)
}

func (s *SQLite) Clear(ctx context.Context, b Bucket) error {
	return sqliteView{s.db}.Clear(ctx, b)
}

func (s *SQLite) Update(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(sqliteView{tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Close() error { return s.db.Close() }

type sqliteView struct{ r sqlRunner }

func (v sqliteView) Get(ctx context.Context, b Bucket, id string) ([]byte, error) {
	if err := check(b, id); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var data string
	err := v.r.QueryRowContext(ctx,
		`SELECT data FROM records WHERE bucket = ? AND id = ?`, string(b), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (v sqliteView) List(ctx context.Context, b Bucket) ([]Record, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := v.r.QueryContext(ctx,
		`SELECT id, data FROM records WHERE bucket = ? ORDER BY id`, string(b))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var (
			id   string
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		out = append(out, Record{ID: id, Data: []byte(data)})
	}
	return out, rows.Err()
}

func (v sqliteView) Put(ctx context.Context, b Bucket, id string, data []byte) error {
	if err := check(b, id); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := v.r.ExecContext(ctx, `
		INSERT INTO records (bucket, id, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (bucket, id) DO UPDATE
		SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, string(b), id, string(data))
	return err
}

func (v sqliteView) Delete(ctx context.Context, b Bucket, id string) (bool, error) {
	if err := check(b, id); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := v.r.ExecContext(ctx, `DELETE FROM records WHERE bucket = ? AND id = ?`, string(b), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (v sqliteView) Clear(ctx context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := v.r.ExecContext(ctx, `DELETE FROM records WHERE bucket = ?`, string(b))
	return err
}
