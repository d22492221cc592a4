package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps buckets in the state_buckets table, one row per
// (namespace, bucket).
type PostgresStore struct {
	DB        DBTX
	Namespace string
}

func (s *PostgresStore) Save(ctx context.Context, b Bucket, value []byte) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO state_buckets(namespace, bucket, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, bucket) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()
	`, s.Namespace, string(b), value)
	if err != nil {
		return fmt.Errorf("postgres save %s: %w", b, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, b Bucket) ([]byte, error) {
	if err := checkBucket(b); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.DB.QueryRow(ctx, `SELECT payload FROM state_buckets WHERE namespace=$1 AND bucket=$2`,
		s.Namespace, string(b)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres load %s: %w", b, err)
	}
	return payload, nil
}

func (s *PostgresStore) Clear(ctx context.Context, b Bucket) error {
	if err := checkBucket(b); err != nil {
		return err
	}
	if _, err := s.DB.Exec(ctx, `DELETE FROM state_buckets WHERE namespace=$1 AND bucket=$2`,
		s.Namespace, string(b)); err != nil {
		return fmt.Errorf("postgres clear %s: %w", b, err)
	}
	return nil
}
