package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the Store contract against any implementation.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, BucketCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, BucketCart, []byte(`[{"id":"a"}]`)))
	got, err := s.Load(ctx, BucketCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, s.Save(ctx, BucketCart, []byte(`[]`)))
	got, err = s.Load(ctx, BucketCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	require.NoError(t, s.Clear(ctx, BucketCart))
	_, err = s.Load(ctx, BucketCart)
	assert.ErrorIs(t, err, ErrNotFound)

	// clearing an empty bucket is fine
	require.NoError(t, s.Clear(ctx, BucketFavorites))

	assert.ErrorIs(t, s.Save(ctx, Bucket("orders"), []byte(`{}`)), ErrUnknownBucket)
	_, err = s.Load(ctx, Bucket("orders"))
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	v := []byte(`"x"`)
	require.NoError(t, s.Save(ctx, BucketPreferences, v))
	v[1] = 'y'

	got, err := s.Load(ctx, BucketPreferences)
	require.NoError(t, err)
	assert.Equal(t, `"x"`, string(got))
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	mr, client := setupTestRedis(t)
	exerciseStore(t, NewRedisStore(client, "device-1"))

	s := NewRedisStore(client, "device-1")
	require.NoError(t, s.Save(context.Background(), BucketFavorites, []byte(`[]`)))
	v, err := mr.Get("storefront:device-1:favorites")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := setupTestRedis(t)
	s := NewRedisStore(client, "ns")
	mr.Close()

	_, err := s.Load(context.Background(), BucketCart)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// fakeDB is an in-memory stand-in for the state_buckets table.
type fakeDB struct {
	rows map[string][]byte
	err  error
}

type fakeRow struct {
	v   []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.v
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	key := fmt.Sprint(args[0], "/", args[1])
	if len(args) == 3 {
		f.rows[key] = args[2].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	delete(f.rows, key)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	v, ok := f.rows[fmt.Sprint(args[0], "/", args[1])]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{v: v}
}

func TestPostgresStore(t *testing.T) {
	exerciseStore(t, &PostgresStore{DB: &fakeDB{rows: map[string][]byte{}}, Namespace: "ns"})
}

func TestPostgresStore_WrapsErrors(t *testing.T) {
	boom := errors.New("conn refused")
	s := &PostgresStore{DB: &fakeDB{rows: map[string][]byte{}, err: boom}, Namespace: "ns"}

	_, err := s.Load(context.Background(), BucketCart)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Save(context.Background(), BucketCart, []byte(`[]`)), boom)
}
