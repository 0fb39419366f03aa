package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/juan-malbeclabs/solana/migrator/migrations"
)

const (
	migrationsTableName = "schema_migrations"
	schemaHashPrefix    = "schema_only_"
)

// Migration-related errors
var (
	ErrMigrationExecution = errors.New("migration execution failed")
	ErrMigrationStatus    = errors.New("migration status unavailable")
)

// Source returns the migrations found in dir, or the embedded ones when dir is empty
func Source(dir string) migrate.MigrationSource {
	if dir == "" {
		return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrations.FS, Root: "."}
	}
	return &migrate.FileMigrationSource{Dir: dir}
}

// SchemaMigrator applies the snapshot store schema to pgtestdb template databases
type SchemaMigrator struct {
	source migrate.MigrationSource
}

// NewSchemaMigrator creates a migrator for the migrations in dir ("" for embedded)
func NewSchemaMigrator(dir string) *SchemaMigrator {
	return &SchemaMigrator{source: Source(dir)}
}

func (m *SchemaMigrator) Hash() (string, error) {
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}

	baseHash, err := sqlmigrator.New(m.source, migrationSet).Hash()
	if err != nil {
		return "", fmt.Errorf("failed to calculate migration hash: %w", err)
	}

	return schemaHashPrefix + baseHash, nil
}

func (m *SchemaMigrator) Migrate(_ context.Context, db *sql.DB, _ pgtestdb.Config) error {
	_, err := applyMigrations(db, m.source)
	return err
}

// ApplyMigrations applies pending up migrations using the provided pgx pool and
// returns how many were applied.
func ApplyMigrations(pool *pgxpool.Pool, dir string) (int, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return applyMigrations(db, Source(dir))
}

// Pending returns the ids of migrations not yet applied
func Pending(pool *pgxpool.Pool, dir string) ([]string, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}
	planned, _, err := migrationSet.PlanMigration(db, "postgres", Source(dir), migrate.Up, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMigrationStatus, err)
	}

	ids := make([]string, len(planned))
	for i, m := range planned {
		ids[i] = m.Id
	}
	return ids, nil
}

func applyMigrations(db *sql.DB, source migrate.MigrationSource) (int, error) {
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}

	n, err := migrationSet.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrMigrationExecution, err)
	}
	return n, nil
}
