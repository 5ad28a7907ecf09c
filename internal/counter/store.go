// Package counter keeps the display-only total of improved résumés.
package counter

import (
	"context"
	"database/sql"
	"errors"

	"resume-improver/internal/shared/storage/kv"
)

// Key names the total in every backend.
const Key = "resumes:improved_total"

// Store reads and increments the total.
type Store interface {
	Get(ctx context.Context) (int64, error)
	Incr(ctx context.Context) (int64, error)
}

type kvStore struct {
	kv kv.Store
}

// NewKVStore counts in a key-value store such as Redis.
func NewKVStore(s kv.Store) Store {
	return &kvStore{kv: s}
}

func (s *kvStore) Get(ctx context.Context) (int64, error) {
	n, _, err := s.kv.GetInt(ctx, Key)
	return n, err
}

func (s *kvStore) Incr(ctx context.Context) (int64, error) {
	return s.kv.Incr(ctx, Key)
}

// PGStore counts in the usage_counter table.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed counter.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Get(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.QueryRowContext(ctx, `SELECT count FROM usage_counter WHERE name = $1`, Key).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (s *PGStore) Incr(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO usage_counter (name, count, updated_at)
VALUES ($1, 1, now())
ON CONFLICT (name) DO UPDATE SET count = usage_counter.count + 1, updated_at = now()
RETURNING count`, Key).Scan(&n)
	return n, err
}
