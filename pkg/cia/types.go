package cia

// Table is the in-memory form of one tabular file: a header row naming
// columns and the data rows beneath it. Rows hold raw string cells in
// header order; no type coercion is applied anywhere in the pipeline.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Column is a single entry of a table's schema definition.
type Column struct {
	Name string
	Type string
}

// ColumnDefinition is the ordered column-to-storage-type mapping used to
// create a database table. Order matches the source file's header.
type ColumnDefinition []Column

// Names returns the column names in definition order.
func (d ColumnDefinition) Names() []string {
	names := make([]string, len(d))
	for i, c := range d {
		names[i] = c.Name
	}
	return names
}
