package validation

import (
	"fmt"

	"statkit/domain/core"
	"statkit/domain/dataset"
)

// Shape describes what an analysis expects from its input.
type Shape struct {
	// Columns must exist; Numeric and Complete apply to them
	Columns []string
	// Categorical must exist but may hold text or numbers
	Categorical []string
	MinLength   int
	Numeric     bool
	Complete    bool
}

// Validate checks data against shape and returns it as a table. Accepted
// representations are []float64, []int, []string, dataset.Series and
// *dataset.Table; bare sequences are exposed as a single column named
// dataset.DefaultColumn and a Series under its own name. data is never
// modified.
func Validate(data any, shape Shape) (*dataset.Table, error) {
	table, err := AsTable(data)
	if err != nil {
		return nil, err
	}

	if len(table.Names()) == 0 || table.Len() == 0 {
		return nil, fmt.Errorf("%w: at least one observation is required", core.ErrEmptyInput)
	}
	if shape.MinLength > 0 && table.Len() < shape.MinLength {
		return nil, core.NewInsufficientDataError("observations", shape.MinLength, table.Len())
	}

	for _, name := range shape.Categorical {
		if _, ok := table.Column(name); !ok {
			return nil, core.NewMissingColumnError(name)
		}
	}

	for _, name := range shape.Columns {
		col, ok := table.Column(name)
		if !ok {
			return nil, core.NewMissingColumnError(name)
		}
		if shape.Numeric && col.Type != dataset.ColumnNumeric {
			return nil, fmt.Errorf("%w: column %q is not numeric", core.ErrTypeMismatch, name)
		}
		if shape.Complete && col.HasMissing() {
			return nil, fmt.Errorf("%w: column %q", core.ErrMissingValues, name)
		}
	}

	return table, nil
}

// ResolveColumn returns column when it is set. Otherwise it names the sole
// column of a one-column input (a sequence or Series) and falls back to
// dataset.DefaultColumn.
func ResolveColumn(data any, column string) string {
	if column != "" {
		return column
	}
	if table, err := AsTable(data); err == nil {
		if names := table.Names(); len(names) == 1 {
			return names[0]
		}
	}
	return dataset.DefaultColumn
}

// AsTable converts a supported input representation into a table without
// checking its content.
func AsTable(data any) (*dataset.Table, error) {
	switch v := data.(type) {
	case *dataset.Table:
		if v == nil {
			return nil, core.NewTypeMismatchError(data)
		}
		return v, nil
	case dataset.Series:
		return dataset.FromSeries(v.Name, cloneFloats(v.Values)), nil
	case []float64:
		return dataset.FromSeries(dataset.DefaultColumn, cloneFloats(v)), nil
	case []int:
		values := make([]float64, len(v))
		for i, x := range v {
			values[i] = float64(x)
		}
		return dataset.FromSeries(dataset.DefaultColumn, values), nil
	case []string:
		texts := make([]string, len(v))
		copy(texts, v)
		return dataset.NewTable(dataset.TextColumn(dataset.DefaultColumn, texts))
	default:
		return nil, core.NewTypeMismatchError(data)
	}
}

func cloneFloats(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
