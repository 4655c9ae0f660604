package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const testSchema = "acf_test"

// TestDB represents a test database connection
type TestDB struct {
	Pool *pgxpool.Pool
}

// NewTestDB connects to TEST_DATABASE_URL and skips the test when it is unset
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err, "Failed to parse test database URL")
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", testSchema))
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	return &TestDB{Pool: pool}
}

// Setup creates the posts and postmeta tables for prefix
func (db *TestDB) Setup(t *testing.T, prefix string) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", testSchema))
	require.NoError(t, err, "Failed to create schema")

	_, err = db.Pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %sposts (
			id BIGSERIAL PRIMARY KEY,
			post_type VARCHAR(20) NOT NULL DEFAULT 'post',
			post_name VARCHAR(200) NOT NULL DEFAULT '',
			post_title TEXT NOT NULL DEFAULT '',
			post_content TEXT NOT NULL DEFAULT '',
			post_excerpt TEXT NOT NULL DEFAULT '',
			post_status VARCHAR(20) NOT NULL DEFAULT 'publish',
			post_mime_type VARCHAR(100) NOT NULL DEFAULT '',
			guid VARCHAR(255) NOT NULL DEFAULT '',
			post_parent BIGINT NOT NULL DEFAULT 0
		)`, prefix))
	require.NoError(t, err, "Failed to create posts table")

	_, err = db.Pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %spostmeta (
			meta_id BIGSERIAL PRIMARY KEY,
			post_id BIGINT NOT NULL DEFAULT 0,
			meta_key VARCHAR(255),
			meta_value TEXT
		)`, prefix))
	require.NoError(t, err, "Failed to create postmeta table")
}

// Teardown drops the tables for prefix
func (db *TestDB) Teardown(t *testing.T, prefix string) {
	t.Helper()
	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %spostmeta, %sposts", prefix, prefix))
	require.NoError(t, err, "Failed to drop tables")
}

// RunTest runs fn against freshly created tables
func RunTest(t *testing.T, fn func(t *testing.T, db *TestDB, repo *Repository)) {
	db := NewTestDB(t)
	defer db.Pool.Close()

	prefix := "wptest_"
	db.Setup(t, prefix)
	defer db.Teardown(t, prefix)

	repo, err := NewWithPool(db.Pool, prefix)
	require.NoError(t, err)

	fn(t, db, repo)
}

func insertPost(t *testing.T, db *TestDB, postType, name, mimeType, guid string) int64 {
	t.Helper()
	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO wptest_posts (post_type, post_name, post_mime_type, guid) VALUES ($1, $2, $3, $4) RETURNING id`,
		postType, name, mimeType, guid).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertMeta(t *testing.T, db *TestDB, postID int64, key, value string) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO wptest_postmeta (post_id, meta_key, meta_value) VALUES ($1, $2, $3)`,
		postID, key, value)
	require.NoError(t, err)
}
