package slot

import (
	"context"
	"os"
	"testing"

	"capibara-storefront/internal/domain"
	"capibara-storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	require.NoError(t, migrate.Apply(ctx, pool))
	if _, err := pool.Exec(ctx, `TRUNCATE storage_slots`); err != nil {
		t.Fatalf("truncate storage_slots: %v", err)
	}

	repo := NewPostgres(pool)
	require.NoError(t, repo.Ping(ctx))

	_, err := repo.Get(ctx, "cart_state")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "cart_state", []byte(`{"items":[]}`)))
	require.NoError(t, repo.Put(ctx, "cart_state", []byte(`{"items":[{"id":7}]}`)))

	got, err := repo.Get(ctx, "cart_state")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":7}]}`, string(got))

	require.NoError(t, repo.Delete(ctx, "cart_state"))
	_, err = repo.Get(ctx, "cart_state")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
