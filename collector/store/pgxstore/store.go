package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juan-malbeclabs/solana/collector"
	"github.com/juan-malbeclabs/solana/collector/store/dbrow"
)

// Sentinel errors for store operations
var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrInsertFailed      = errors.New("insert operation failed")
	ErrCopyFailed        = errors.New("bulk copy operation failed")
	ErrEncodeRows        = errors.New("encoding snapshot rows failed")
	ErrQueryFailed       = errors.New("query failed")
	ErrNoSnapshot        = errors.New("no snapshot stored")
)

// Name identifies the store in logs and errors
const Name = "postgres"

// Store implements collector.Exporter using pgx
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL store with an existing connection pool
// Returns the store and a closer function
func New(pool *pgxpool.Pool) (*Store, func()) {
	store := &Store{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

func (s *Store) Name() string { return Name }

// Export saves the snapshot header and every row in a single transaction.
// Rows are bulk loaded with CopyFrom.
func (s *Store) Export(ctx context.Context, snapshot collector.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // No-op if commit succeeds

	columns := snapshot.Table.Columns
	if columns == nil {
		columns = []string{}
	}

	var snapshotID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO validator_snapshots (run_id, taken_at, row_count, columns)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, snapshot.RunID, snapshot.TakenAt, snapshot.Table.Len(), columns).Scan(&snapshotID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInsertFailed, err)
	}

	rows, err := dbrow.TableToRows(snapshotID, snapshot.Table)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeRows, err)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"validator_snapshot_rows"},
		dbrow.CopyColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	return nil
}

// LatestSnapshot returns the most recently taken snapshot with its rows in table order
func (s *Store) LatestSnapshot(ctx context.Context) (collector.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, run_id, taken_at, row_count, columns
		FROM validator_snapshots
		ORDER BY taken_at DESC, id DESC
		LIMIT 1
	`)
	if err != nil {
		return collector.Snapshot{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	header, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dbrow.Snapshot])
	if errors.Is(err, pgx.ErrNoRows) {
		return collector.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return collector.Snapshot{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	rows, err = s.pool.Query(ctx, `
		SELECT ordinal, identity_pubkey, data
		FROM validator_snapshot_rows
		WHERE snapshot_id = $1
		ORDER BY ordinal
	`, header.ID)
	if err != nil {
		return collector.Snapshot{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	stored, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbrow.SnapshotRow])
	if err != nil {
		return collector.Snapshot{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	return dbrow.ToSnapshot(header, stored)
}
