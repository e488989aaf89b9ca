package dataset

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// Dataset is an ordered set of equally long columns.
//
// Column accessors return copies; use SetColumn to write. A Dataset is not
// safe for concurrent mutation, pipelines clone before transforming.
type Dataset struct {
	names []string
	cols  map[string][]Value
	rows  int
}

// New returns an empty dataset with the given number of rows
func New(rows int) *Dataset {
	return &Dataset{cols: make(map[string][]Value), rows: rows}
}

// NewDataset builds a dataset from columns in the given order
func NewDataset(names []string, data map[string][]Value) (*Dataset, error) {
	ds := New(0)
	for i, name := range names {
		values, ok := data[name]
		if !ok {
			return nil, appErrors.MissingColumnError("dataset", name)
		}
		if i == 0 {
			ds.rows = len(values)
		}
		if err := ds.SetColumn(name, values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// FromRecords builds a dataset from row mappings. When columns is empty the
// union of all keys is used in sorted order. Keys absent from a row are missing.
func FromRecords(records []map[string]any, columns []string) *Dataset {
	if len(columns) == 0 {
		seen := make(map[string]struct{})
		for _, rec := range records {
			for k := range rec {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					columns = append(columns, k)
				}
			}
		}
		sort.Strings(columns)
	}

	ds := New(len(records))
	for _, name := range columns {
		values := make([]Value, len(records))
		for i, rec := range records {
			values[i] = FromAny(rec[name])
		}
		ds.names = append(ds.names, name)
		ds.cols[name] = values
	}
	return ds
}

// Len returns the number of rows
func (d *Dataset) Len() int { return d.rows }

// Columns returns the column names in order
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// HasColumn reports whether the column exists
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.cols[name]
	return ok
}

// Column returns a copy of the named column
func (d *Dataset) Column(name string) ([]Value, error) {
	values, ok := d.cols[name]
	if !ok {
		return nil, appErrors.MissingColumnError("dataset", name)
	}
	out := make([]Value, len(values))
	copy(out, values)
	return out, nil
}

// Value returns a single cell; absent columns read as missing
func (d *Dataset) Value(row int, name string) Value {
	values, ok := d.cols[name]
	if !ok || row < 0 || row >= len(values) {
		return Missing()
	}
	return values[row]
}

// SetColumn adds a column at the end or replaces an existing one in place.
// The first column of an empty dataset fixes the row count.
func (d *Dataset) SetColumn(name string, values []Value) error {
	if name == "" {
		return appErrors.ConfigurationError("dataset", "column name cannot be empty")
	}
	if len(d.names) == 0 && d.rows == 0 {
		d.rows = len(values)
	}
	if len(values) != d.rows {
		return appErrors.LengthMismatchError(fmt.Sprintf("column %q", name), d.rows, len(values))
	}
	if _, ok := d.cols[name]; !ok {
		d.names = append(d.names, name)
	}
	stored := make([]Value, len(values))
	copy(stored, values)
	d.cols[name] = stored
	return nil
}

// Drop removes the named columns. If any is absent nothing is removed and
// the error lists every absent column.
func (d *Dataset) Drop(names ...string) error {
	var absent []string
	for _, name := range names {
		if !d.HasColumn(name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return appErrors.MissingColumnError("dataset", absent...)
	}

	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
		delete(d.cols, name)
	}
	kept := d.names[:0]
	for _, name := range d.names {
		if _, gone := drop[name]; !gone {
			kept = append(kept, name)
		}
	}
	d.names = kept
	return nil
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := New(d.rows)
	out.names = append([]string(nil), d.names...)
	for name, values := range d.cols {
		out.cols[name] = append([]Value(nil), values...)
	}
	return out
}

// Select returns a new dataset with exactly the given columns in order.
// Columns not present are filled with missing values.
func (d *Dataset) Select(names []string) *Dataset {
	out := New(d.rows)
	for _, name := range names {
		if _, dup := out.cols[name]; dup {
			continue
		}
		values, ok := d.cols[name]
		if !ok {
			values = make([]Value, d.rows)
		}
		out.names = append(out.names, name)
		out.cols[name] = append([]Value(nil), values...)
	}
	return out
}

// Subset returns the rows at the given indices, in that order
func (d *Dataset) Subset(indices []int) *Dataset {
	out := New(len(indices))
	out.names = append([]string(nil), d.names...)
	for name, values := range d.cols {
		col := make([]Value, len(indices))
		for i, idx := range indices {
			col[i] = values[idx]
		}
		out.cols[name] = col
	}
	return out
}

// Split shuffles row indices with seed and returns (train, test) where test
// holds round(testSize * rows) rows.
func (d *Dataset) Split(testSize float64, seed int64) (*Dataset, *Dataset) {
	indices := rand.New(rand.NewSource(seed)).Perm(d.rows) //nolint:gosec // reproducible split, not security
	nTest := int(testSize*float64(d.rows) + 0.5)
	if nTest > d.rows {
		nTest = d.rows
	}
	return d.Subset(indices[nTest:]), d.Subset(indices[:nTest])
}

// Records returns each row as a mapping of column name to nil, string or float64
func (d *Dataset) Records() []map[string]any {
	out := make([]map[string]any, d.rows)
	for i := 0; i < d.rows; i++ {
		rec := make(map[string]any, len(d.names))
		for _, name := range d.names {
			rec[name] = d.cols[name][i].Any()
		}
		out[i] = rec
	}
	return out
}

// Float64s returns a numeric column; every value must be a number
func (d *Dataset) Float64s(name string) ([]float64, error) {
	values, ok := d.cols[name]
	if !ok {
		return nil, appErrors.MissingColumnError("dataset", name)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		f, ok := v.Float()
		if !ok {
			return nil, appErrors.NonNumericValueError(name, i, v.String())
		}
		out[i] = f
	}
	return out, nil
}

// Matrix returns the named columns as a rows x len(columns) dense matrix.
// Every value must be present and numeric.
func (d *Dataset) Matrix(columns []string) (*mat.Dense, error) {
	return d.MatrixFilled(columns, nil)
}

// MatrixFilled is Matrix with missing values replaced by the per-column fill.
// Missing values in columns without a fill are reported as ErrMissingValue.
func (d *Dataset) MatrixFilled(columns []string, fill map[string]float64) (*mat.Dense, error) {
	if d.rows == 0 || len(columns) == 0 {
		return nil, appErrors.InsufficientDataError("matrix", fmt.Sprint(columns))
	}
	var absent []string
	for _, name := range columns {
		if !d.HasColumn(name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return nil, appErrors.MissingColumnError("matrix", absent...)
	}

	data := make([]float64, d.rows*len(columns))
	for j, name := range columns {
		fv, canFill := fill[name]
		for i, v := range d.cols[name] {
			if v.IsMissing() {
				if !canFill {
					return nil, appErrors.MissingValueError(name, i)
				}
				data[i*len(columns)+j] = fv
				continue
			}
			f, ok := v.Float()
			if !ok {
				return nil, appErrors.NonNumericValueError(name, i, v.String())
			}
			data[i*len(columns)+j] = f
		}
	}
	return mat.NewDense(d.rows, len(columns), data), nil
}
