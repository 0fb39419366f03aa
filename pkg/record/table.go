package record

// Table is a rectangular view over a set of records
type Table struct {
	Columns []string
	Rows    [][]any
}

// Tabulate lays records out as rows. The column set is the union of all keys,
// ordered by first appearance. A key missing from a record yields a nil cell.
func Tabulate(records []*Record) Table {
	var columns []string
	index := make(map[string]int)
	for _, r := range records {
		for _, k := range r.keys {
			if _, seen := index[k]; !seen {
				index[k] = len(columns)
				columns = append(columns, k)
			}
		}
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		row := make([]any, len(columns))
		for _, k := range r.keys {
			row[index[k]] = r.values[k]
		}
		rows[i] = row
	}

	return Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Column returns the position of name, or -1
func (t Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
