package dataset

import (
	"fmt"
	"math"
	"strconv"

	"statkit/domain/core"
)

// DefaultColumn is the column name a bare sequence is exposed under.
const DefaultColumn = "valeur"

// ColumnType distinguishes numeric columns from categorical ones
type ColumnType string

const (
	ColumnNumeric ColumnType = "numeric"
	ColumnText    ColumnType = "text"
)

// Column is a named vector of either numeric or text values.
type Column struct {
	Name    string
	Type    ColumnType
	Numbers []float64
	Texts   []string
}

// NumericColumn creates a numeric column
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Type: ColumnNumeric, Numbers: values}
}

// TextColumn creates a categorical column
func TextColumn(name string, values []string) Column {
	return Column{Name: name, Type: ColumnText, Texts: values}
}

// Len returns the number of observations in the column
func (c Column) Len() int {
	if c.Type == ColumnText {
		return len(c.Texts)
	}
	return len(c.Numbers)
}

// Labels returns the column values as strings. Numbers use the shortest
// representation that round-trips, so 3.0 becomes "3".
func (c Column) Labels() []string {
	if c.Type == ColumnText {
		out := make([]string, len(c.Texts))
		copy(out, c.Texts)
		return out
	}
	out := make([]string, len(c.Numbers))
	for i, v := range c.Numbers {
		out[i] = FormatValue(v)
	}
	return out
}

// HasMissing reports whether a numeric column contains NaN
func (c Column) HasMissing() bool {
	if c.Type != ColumnNumeric {
		return false
	}
	for _, v := range c.Numbers {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// FormatValue renders a float as a label
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Series is a single named numeric sequence
type Series struct {
	Name   string
	Values []float64
}

// Table is an ordered set of equal-length labeled columns
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable creates a table from columns. Column names must be unique and all
// columns must have the same length.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				core.ErrLengthMismatch, col.Name, col.Len(), t.rows)
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// FromSeries wraps a numeric sequence as a one-column table
func FromSeries(name string, values []float64) *Table {
	if name == "" {
		name = DefaultColumn
	}
	t, _ := NewTable(NumericColumn(name, values))
	return t
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in declaration order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Numbers returns a copy of a numeric column
func (t *Table) Numbers(name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	if col.Type != ColumnNumeric {
		return nil, fmt.Errorf("%w: column %q is not numeric", core.ErrTypeMismatch, name)
	}
	out := make([]float64, len(col.Numbers))
	copy(out, col.Numbers)
	return out, nil
}

// Labels returns a column rendered as strings
func (t *Table) Labels(name string) ([]string, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	return col.Labels(), nil
}
