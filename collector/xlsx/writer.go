// Package xlsx exports collector snapshots as Excel workbooks.
package xlsx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/juan-malbeclabs/solana/collector"
	"github.com/juan-malbeclabs/solana/pkg/record"
)

// Defaults matching what spreadsheet tools expect from a single-sheet export
const (
	DefaultPath  = "validators.xlsx"
	DefaultSheet = "Sheet1"
)

// Sentinel errors for workbook operations
var (
	ErrSheetSetup = errors.New("sheet setup failed")
	ErrWriteRow   = errors.New("writing row failed")
	ErrSave       = errors.New("saving workbook failed")
)

// Option configures the Writer
type Option func(*Writer)

// WithSheet sets the worksheet name
func WithSheet(name string) Option {
	return func(w *Writer) { w.sheet = name }
}

// Writer writes the snapshot table to a workbook file, replacing any existing file
type Writer struct {
	path  string
	sheet string
}

// New creates a Writer for path
func New(path string, opts ...Option) *Writer {
	w := &Writer{path: path, sheet: DefaultSheet}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name identifies the exporter in logs
func (w *Writer) Name() string {
	return "xlsx"
}

// Path returns the output file
func (w *Writer) Path() string {
	return w.path
}

// Export writes a bold header row followed by one row per record. There is no index column.
func (w *Writer) Export(ctx context.Context, snapshot collector.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if w.sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, w.sheet); err != nil {
			return fmt.Errorf("%w: %w", ErrSheetSetup, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSheetSetup, err)
	}

	sw, err := f.NewStreamWriter(w.sheet)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSheetSetup, err)
	}

	table := snapshot.Table
	if len(table.Columns) > 0 {
		header := make([]any, len(table.Columns))
		for i, c := range table.Columns {
			header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
		}
		if err := sw.SetRow("A1", header); err != nil {
			return fmt.Errorf("%w: header: %w", ErrWriteRow, err)
		}
	}

	for i, row := range table.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j], err = cellValue(v)
			if err != nil {
				return fmt.Errorf("%w: row %d column %s: %w", ErrWriteRow, i+1, table.Columns[j], err)
			}
		}

		// header occupies row 1
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteRow, err)
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return fmt.Errorf("%w: row %d: %w", ErrWriteRow, i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteRow, err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSave, w.path, err)
	}
	return nil
}

// cellValue maps a record value onto something excelize can store.
// Nil becomes an empty cell; arrays and any leftover objects are written as JSON text.
func cellValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, float64, int, int64:
		return t, nil
	case json.Number:
		return record.Scalar(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
}
