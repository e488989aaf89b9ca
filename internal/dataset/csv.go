package dataset

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// missingTokens are CSV cells read as missing values
//
//nolint:gochecknoglobals // fixed token table
var missingTokens = []string{"", "NA", "NaN", "nan", "null", "<nil>"}

// ReadCSV loads a headered CSV document. Cells that parse as numbers become
// numbers, the missing tokens become missing and everything else stays text.
func ReadCSV(r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingTokens),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", df.Err)
	}

	ds := New(df.Nrow())
	for _, name := range df.Names() {
		col := df.Col(name)
		values := make([]Value, col.Len())
		for i := range values {
			values[i] = parseCell(col.Elem(i))
		}
		if err := ds.SetColumn(name, values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// ReadCSVFile loads a CSV file from disk
func ReadCSVFile(path string) (*Dataset, error) {
	file, err := os.Open(path) //#nosec G304 -- Path is the configured training data file
	if err != nil {
		return nil, appErrors.FileOpenError(path, err)
	}
	defer func() { _ = file.Close() }()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, appErrors.FileReadError(path, err)
	}
	return ds, nil
}

func parseCell(elem series.Element) Value {
	if elem.IsNA() {
		return Missing()
	}
	raw := strings.TrimSpace(elem.String())
	for _, token := range missingTokens {
		if raw == token {
			return Missing()
		}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(f)
	}
	return String(raw)
}
