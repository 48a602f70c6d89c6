package export

import "fmt"

// Column describes one exported field. Width is a relative weight used by
// the PDF renderer; zero means an even share.
type Column struct {
	Key    string
	Header string
	Width  float64
}

// Table is renderer-agnostic export content.
type Table struct {
	Title   string
	Columns []Column
	Rows    []map[string]string
}

// Headers returns the column headers, falling back to the key.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
		if headers[i] == "" {
			headers[i] = col.Key
		}
	}
	return headers
}

// Record returns row values ordered by column.
func (t Table) Record(row map[string]string) []string {
	record := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		record[i] = row[col.Key]
	}
	return record
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("export requires at least one column")
	}
	return nil
}
