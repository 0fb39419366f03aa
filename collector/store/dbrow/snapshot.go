package dbrow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/juan-malbeclabs/solana/collector"
	"github.com/juan-malbeclabs/solana/pkg/record"
)

// Snapshot represents a validator_snapshots row
type Snapshot struct {
	ID       int64     `db:"id"`
	RunID    uuid.UUID `db:"run_id"`
	TakenAt  time.Time `db:"taken_at"`
	RowCount int       `db:"row_count"`
	Columns  []string  `db:"columns"`
	// created_at is handled by database DEFAULT CURRENT_TIMESTAMP
}

// SnapshotRow represents a validator_snapshot_rows row without its snapshot id
type SnapshotRow struct {
	Ordinal        int     `db:"ordinal"`
	IdentityPubkey *string `db:"identity_pubkey"`
	Data           []byte  `db:"data"`
}

// CopyColumns lists the validator_snapshot_rows columns in TableToRows order
var CopyColumns = []string{"snapshot_id", "ordinal", "identity_pubkey", "data"}

// TableToRows converts a flattened table to [][]any for pgx.CopyFromRows.
// Each row keeps its non-empty cells as a JSON object in column order.
func TableToRows(snapshotID int64, table record.Table) ([][]any, error) {
	identityCol := table.Column(collector.IdentityField)
	rows := make([][]any, len(table.Rows))

	for i, cells := range table.Rows {
		obj := record.New()
		for j, v := range cells {
			if v != nil {
				obj.Set(table.Columns[j], v)
			}
		}
		data, err := obj.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		var identity *string
		if identityCol >= 0 {
			if s, ok := cells[identityCol].(string); ok {
				identity = &s
			}
		}

		rows[i] = []any{snapshotID, i, identity, json.RawMessage(data)}
	}

	return rows, nil
}

// ToSnapshot rebuilds a collector snapshot from stored rows, which must be sorted by ordinal
func ToSnapshot(s Snapshot, rows []SnapshotRow) (collector.Snapshot, error) {
	table := record.Table{
		Columns: s.Columns,
		Rows:    make([][]any, len(rows)),
	}

	for i, row := range rows {
		obj, err := record.DecodeObject(bytes.NewReader(row.Data))
		if err != nil {
			return collector.Snapshot{}, fmt.Errorf("row %d: %w", row.Ordinal, err)
		}

		cells := make([]any, len(table.Columns))
		for j, col := range table.Columns {
			cells[j], _ = obj.Get(col)
		}
		table.Rows[i] = cells
	}

	return collector.Snapshot{RunID: s.RunID, TakenAt: s.TakenAt, Table: table}, nil
}
