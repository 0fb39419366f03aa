package pgxdbtest

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/stretchr/testify/require"
)

// Config returns the pgtestdb server settings used by integration tests.
// It matches the database started by the local compose setup.
func Config() pgtestdb.Config {
	return pgtestdb.Config{
		DriverName: "pgx",
		User:       "validators",
		Password:   "validators",
		Host:       "localhost",
		Port:       "5432",
		Options:    "sslmode=disable",
	}
}

// CreateTestDatabase clones a template database prepared by the given migrator.
// Returns the connection pool and database URL for further connections.
func CreateTestDatabase(t *testing.T, migrator pgtestdb.Migrator) (*pgxpool.Pool, string) {
	t.Helper()

	dbConfig := pgtestdb.Custom(t, Config(), migrator)
	dbURL := dbConfig.URL()

	t.Logf("testdbconf: %s", dbURL)

	pool, err := NewTestConnection(t, dbURL)
	require.NoError(t, err)

	return pool, dbURL
}

// NewTestConnection opens a small pool that is closed when the test ends
func NewTestConnection(t *testing.T, connectionString string) (*pgxpool.Pool, error) {
	t.Helper()

	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, err
	}

	config.MinConns = 1
	config.MaxConns = 2
	config.MaxConnLifetime = 10 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(t.Context(), config)
	if err != nil {
		return nil, err
	}
	t.Cleanup(pool.Close)

	return pool, nil
}
