package etl

// Table is a decoded spreadsheet sheet: one header row plus data rows, as
// produced by excelize GetRows. Rows may be shorter than the header; a
// missing cell reads as the empty string.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t Table) columnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return idx
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
