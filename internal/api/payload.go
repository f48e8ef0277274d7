package api

import (
	"fmt"
	"math"
	"time"

	"statkit/domain/core"
	"statkit/domain/dataset"
	"statkit/internal/errors"

	"github.com/tidwall/gjson"
)

// decodeData converts the "data" member of a request body into one of the
// representations the validator accepts. Arrays of numbers (null for a
// missing value) become []float64, arrays of strings []string, and objects of
// arrays a *dataset.Table. Any other JSON value is passed through as its Go
// scalar so the analysis rejects it as a type mismatch.
func decodeData(body []byte) (any, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.InvalidInput("request body is not valid JSON")
	}
	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		return nil, fmt.Errorf("%w: request has no data", core.ErrEmptyInput)
	}

	switch {
	case data.IsArray():
		col, err := decodeColumn(dataset.DefaultColumn, data)
		if err != nil {
			return nil, err
		}
		if col.Type == dataset.ColumnText {
			return col.Texts, nil
		}
		return col.Numbers, nil
	case data.IsObject():
		var columns []dataset.Column
		var decodeErr error
		data.ForEach(func(key, value gjson.Result) bool {
			if !value.IsArray() {
				decodeErr = fmt.Errorf("%w: column %q is not an array", core.ErrTypeMismatch, key.String())
				return false
			}
			col, err := decodeColumn(key.String(), value)
			if err != nil {
				decodeErr = err
				return false
			}
			columns = append(columns, col)
			return true
		})
		if decodeErr != nil {
			return nil, decodeErr
		}
		table, err := dataset.NewTable(columns...)
		if err != nil {
			if core.IsValueError(err) {
				return nil, err
			}
			return nil, errors.InvalidInput(err.Error())
		}
		return table, nil
	default:
		return data.Value(), nil
	}
}

// decodeColumn reads a JSON array as a numeric column when every element is a
// number or null, and as a text column when every element is a string.
func decodeColumn(name string, arr gjson.Result) (dataset.Column, error) {
	items := arr.Array()
	numeric, text := true, true
	for _, item := range items {
		switch item.Type {
		case gjson.Number:
			text = false
		case gjson.Null:
			text = false
		case gjson.String:
			numeric = false
		default:
			numeric, text = false, false
		}
	}

	switch {
	case numeric:
		values := make([]float64, len(items))
		for i, item := range items {
			if item.Type == gjson.Null {
				values[i] = math.NaN()
			} else {
				values[i] = item.Float()
			}
		}
		return dataset.NumericColumn(name, values), nil
	case text:
		values := make([]string, len(items))
		for i, item := range items {
			values[i] = item.String()
		}
		return dataset.TextColumn(name, values), nil
	}
	return dataset.Column{}, fmt.Errorf("%w: column %q mixes value types", core.ErrTypeMismatch, name)
}

func stringList(body []byte, path string) []string {
	var out []string
	for _, item := range gjson.GetBytes(body, path).Array() {
		out = append(out, item.String())
	}
	return out
}

func timestamps(body []byte, path string) ([]time.Time, error) {
	value := gjson.GetBytes(body, path)
	if !value.Exists() {
		return nil, nil
	}
	items := value.Array()
	out := make([]time.Time, len(items))
	for i, item := range items {
		ts, err := time.Parse(time.RFC3339, item.String())
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("timestamp %d is not RFC3339: %q", i, item.String()))
		}
		out[i] = ts
	}
	return out, nil
}
