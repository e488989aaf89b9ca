package dataset

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

func TestValueRendering(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		str   string
		kind  Kind
	}{
		{"integral number", Number(2012), "2012", KindNumber},
		{"fractional number", Number(0.24), "0.24", KindNumber},
		{"string", String("Clear"), "Clear", KindString},
		{"missing", Missing(), "", KindMissing},
		{"nan is missing", Number(math.NaN()), "", KindMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.value.String())
			assert.Equal(t, tt.kind, tt.value.Kind())
		})
	}
}

func TestFromAny(t *testing.T) {
	assert.True(t, FromAny(nil).IsMissing())
	assert.Equal(t, Number(3), FromAny(3))
	assert.Equal(t, Number(1.5), FromAny(json.Number("1.5")))
	assert.Equal(t, String("abc"), FromAny(json.Number("abc")))
	assert.Equal(t, String("Mon"), FromAny("Mon"))
	assert.Equal(t, String("true"), FromAny(true))
	assert.True(t, FromAny(math.NaN()).IsMissing())
}

func TestValueFloat(t *testing.T) {
	f, ok := String(" 12.5 ").Float()
	assert.True(t, ok)
	assert.InDelta(t, 12.5, f, 1e-12)

	_, ok = String("4am").Float()
	assert.False(t, ok)

	_, ok = Missing().Float()
	assert.False(t, ok)
}

func TestValueMarshalJSON(t *testing.T) {
	out, err := json.Marshal([]Value{Number(2), String("x"), Missing()})
	require.NoError(t, err)
	assert.JSONEq(t, `[2, "x", null]`, string(out))
}

func sample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset([]string{"a", "b"}, map[string][]Value{
		"a": {Number(1), Number(2), Number(3)},
		"b": {String("x"), Missing(), String("z")},
	})
	require.NoError(t, err)
	return ds
}

func TestNewDataset(t *testing.T) {
	ds := sample(t)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"a", "b"}, ds.Columns())

	_, err := NewDataset([]string{"a", "b"}, map[string][]Value{
		"a": {Number(1)},
		"b": {Number(1), Number(2)},
	})
	require.ErrorIs(t, err, appErrors.ErrLengthMismatch)

	_, err = NewDataset([]string{"a"}, map[string][]Value{})
	require.ErrorIs(t, err, appErrors.ErrMissingColumn)
}

func TestFromRecords(t *testing.T) {
	ds := FromRecords([]map[string]any{
		{"temp": 0.3, "season": "fall"},
		{"temp": nil, "hr": "5pm"},
	}, nil)

	assert.Equal(t, []string{"hr", "season", "temp"}, ds.Columns())
	assert.True(t, ds.Value(0, "hr").IsMissing())
	assert.Equal(t, "5pm", ds.Value(1, "hr").String())
	assert.True(t, ds.Value(1, "temp").IsMissing())

	ordered := FromRecords([]map[string]any{{"x": 1}}, []string{"y", "x"})
	assert.Equal(t, []string{"y", "x"}, ordered.Columns())
	assert.True(t, ordered.Value(0, "y").IsMissing())
}

func TestColumnReturnsCopy(t *testing.T) {
	ds := sample(t)
	col, err := ds.Column("a")
	require.NoError(t, err)
	col[0] = Number(100)

	assert.Equal(t, Number(1), ds.Value(0, "a"))

	_, err = ds.Column("nope")
	require.ErrorIs(t, err, appErrors.ErrMissingColumn)
}

func TestSetColumn(t *testing.T) {
	ds := sample(t)

	require.NoError(t, ds.SetColumn("a", []Value{Number(9), Number(8), Number(7)}))
	assert.Equal(t, []string{"a", "b"}, ds.Columns())
	assert.Equal(t, Number(9), ds.Value(0, "a"))

	require.NoError(t, ds.SetColumn("c", []Value{Missing(), Missing(), Missing()}))
	assert.Equal(t, []string{"a", "b", "c"}, ds.Columns())

	err := ds.SetColumn("d", []Value{Number(1)})
	require.ErrorIs(t, err, appErrors.ErrLengthMismatch)

	err = ds.SetColumn("", []Value{Number(1), Number(2), Number(3)})
	require.ErrorIs(t, err, appErrors.ErrConfiguration)
}

func TestDrop(t *testing.T) {
	ds := sample(t)

	err := ds.Drop("a", "missing1", "missing2")
	require.ErrorIs(t, err, appErrors.ErrMissingColumn)
	assert.Contains(t, err.Error(), `"missing1", "missing2"`)
	assert.Equal(t, []string{"a", "b"}, ds.Columns(), "dataset unchanged on error")

	require.NoError(t, ds.Drop("a"))
	assert.Equal(t, []string{"b"}, ds.Columns())
	assert.False(t, ds.HasColumn("a"))
	assert.Equal(t, 3, ds.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	ds := sample(t)
	clone := ds.Clone()

	require.NoError(t, clone.Drop("b"))
	require.NoError(t, clone.SetColumn("a", []Value{Missing(), Missing(), Missing()}))

	assert.Equal(t, []string{"a", "b"}, ds.Columns())
	assert.Equal(t, Number(1), ds.Value(0, "a"))
}

func TestSelect(t *testing.T) {
	ds := sample(t)
	sel := ds.Select([]string{"b", "c", "b"})

	assert.Equal(t, []string{"b", "c"}, sel.Columns())
	assert.True(t, sel.Value(2, "c").IsMissing())
	assert.Equal(t, "z", sel.Value(2, "b").String())
}

func TestSplit(t *testing.T) {
	values := make([]Value, 10)
	for i := range values {
		values[i] = Number(float64(i))
	}
	ds, err := NewDataset([]string{"i"}, map[string][]Value{"i": values})
	require.NoError(t, err)

	train, test := ds.Split(0.2, 42)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, test.Len())

	seen := make(map[float64]bool)
	for _, part := range []*Dataset{train, test} {
		col, colErr := part.Float64s("i")
		require.NoError(t, colErr)
		for _, f := range col {
			seen[f] = true
		}
	}
	assert.Len(t, seen, 10)

	train2, _ := ds.Split(0.2, 42)
	assert.Equal(t, train.Records(), train2.Records(), "same seed gives the same split")
}

func TestMatrix(t *testing.T) {
	ds, err := NewDataset([]string{"x", "y"}, map[string][]Value{
		"x": {Number(1), Number(2)},
		"y": {Number(3), String("4")},
	})
	require.NoError(t, err)

	m, err := ds.Matrix([]string{"y", "x"})
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, 3.0, m.At(0, 0), 0)
	assert.InDelta(t, 1.0, m.At(0, 1), 0)
	assert.InDelta(t, 4.0, m.At(1, 0), 0)

	_, err = ds.Matrix([]string{"x", "z"})
	require.ErrorIs(t, err, appErrors.ErrMissingColumn)

	require.NoError(t, ds.SetColumn("s", []Value{String("Mon"), Missing()}))
	_, err = ds.Matrix([]string{"s"})
	require.ErrorIs(t, err, appErrors.ErrNonNumericValue)
}

func TestMatrixFilled(t *testing.T) {
	ds, err := NewDataset([]string{"temp", "hum"}, map[string][]Value{
		"temp": {Number(1), Missing()},
		"hum":  {Missing(), Number(60)},
	})
	require.NoError(t, err)

	_, err = ds.Matrix([]string{"temp", "hum"})
	require.ErrorIs(t, err, appErrors.ErrMissingValue)
	assert.Contains(t, err.Error(), `column "temp" row 1`)

	_, err = ds.MatrixFilled([]string{"temp", "hum"}, map[string]float64{"temp": 0.5})
	require.ErrorIs(t, err, appErrors.ErrMissingValue)
	assert.Contains(t, err.Error(), `column "hum" row 0`)

	m, err := ds.MatrixFilled([]string{"temp", "hum"}, map[string]float64{"temp": 0.5, "hum": 55})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.At(0, 0), 0)
	assert.InDelta(t, 55.0, m.At(0, 1), 0)
	assert.InDelta(t, 0.5, m.At(1, 0), 0)
	assert.InDelta(t, 60.0, m.At(1, 1), 0)
}

func TestReadCSV(t *testing.T) {
	doc := strings.Join([]string{
		"dteday,season,hr,temp,weathersit,yr",
		"2012-11-05,winter,6am,0.3,Clear,2012",
		"2011-07-13,fall,4pm,,NA,2011",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"dteday", "season", "hr", "temp", "weathersit", "yr"}, ds.Columns())
	assert.Equal(t, String("2012-11-05"), ds.Value(0, "dteday"))
	assert.Equal(t, String("6am"), ds.Value(0, "hr"))
	assert.Equal(t, Number(0.3), ds.Value(0, "temp"))
	assert.Equal(t, "2011", ds.Value(1, "yr").String())
	assert.True(t, ds.Value(1, "temp").IsMissing())
	assert.True(t, ds.Value(1, "weathersit").IsMissing())
}

func TestReadCSVFileMissing(t *testing.T) {
	_, err := ReadCSVFile("does-not-exist.csv")
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2012-11-05", "2012-11-05T00:00:00Z", "2012-11-05 00:00:00", "11/05/2012"} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, 2012, d.Year())
		assert.Equal(t, "November", d.Month().String())
		assert.Equal(t, "Monday", d.Weekday().String())
	}

	_, ok := ParseDate("not a date")
	assert.False(t, ok)
	_, ok = ParseDate("2012-02-30")
	assert.False(t, ok)
	_, ok = ParseDateValue(Number(20121105))
	assert.False(t, ok)
}
