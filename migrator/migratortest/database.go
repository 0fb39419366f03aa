package migratortest

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juan-malbeclabs/solana/migrator"
	"github.com/juan-malbeclabs/solana/pkg/pgxdb/pgxdbtest"
)

// CreateSnapshotTestDatabase creates a test database with the embedded snapshot
// schema applied. Returns the connection pool ready for use.
func CreateSnapshotTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, _ := pgxdbtest.CreateTestDatabase(t, migrator.NewSchemaMigrator(""))
	return pool
}
