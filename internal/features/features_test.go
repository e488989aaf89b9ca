package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

func newDataset(t *testing.T, names []string, cols map[string][]dataset.Value) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.NewDataset(names, cols)
	require.NoError(t, err)
	return ds
}

func str(s string) dataset.Value  { return dataset.String(s) }
func num(f float64) dataset.Value { return dataset.Number(f) }
func missing() dataset.Value      { return dataset.Missing() }
func strs(vs ...string) []dataset.Value {
	out := make([]dataset.Value, len(vs))
	for i, v := range vs {
		out[i] = str(v)
	}
	return out
}

func TestConstructorsRejectBadArguments(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"weekday imputer empty date", func() error { _, err := NewWeekdayImputer("", "weekday"); return err }},
		{"weekday imputer blank weekday", func() error { _, err := NewWeekdayImputer("dteday", "  "); return err }},
		{"weathersit imputer empty", func() error { _, err := NewWeathersitImputer(""); return err }},
		{"mapper empty table", func() error { _, err := NewMapper("season", nil); return err }},
		{"mapper empty variable", func() error { _, err := NewMapper("", map[string]int{"a": 1}); return err }},
		{"outlier no variables", func() error { _, err := NewOutlierHandler(); return err }},
		{"outlier duplicate", func() error { _, err := NewOutlierHandler("temp", "temp"); return err }},
		{"encoder bad policy", func() error { _, err := NewWeekdayOneHotEncoder("weekday", "skip"); return err }},
		{"drop none", func() error { _, err := NewDropColumns(); return err }},
		{"drop blank", func() error { _, err := NewDropColumns("casual", ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.fn(), appErrors.ErrConfiguration)
		})
	}
}

func TestWeekdayImputer(t *testing.T) {
	s, err := NewWeekdayImputer("dteday", "weekday")
	require.NoError(t, err)
	assert.Equal(t, KindWeekdayImputer, s.Name())

	ds := newDataset(t, []string{"dteday", "weekday"}, map[string][]dataset.Value{
		"dteday":  strs("2012-11-05", "2012-11-06", "bogus"),
		"weekday": {missing(), str("Fri"), str("Sun")},
	})

	require.NoError(t, s.Fit(ds))
	out, err := s.Transform(ds)
	require.NoError(t, err)

	assert.Equal(t, "Mon", out.Value(0, "weekday").String())
	assert.Equal(t, "Fri", out.Value(1, "weekday").String(), "existing values are never overwritten")
	assert.Equal(t, "Sun", out.Value(2, "weekday").String(), "unparseable date ignored when weekday present")
	assert.True(t, ds.Value(0, "weekday").IsMissing(), "input not mutated")

	t.Run("invalid date on a missing row", func(t *testing.T) {
		bad := newDataset(t, []string{"dteday", "weekday"}, map[string][]dataset.Value{
			"dteday":  strs("not-a-date"),
			"weekday": {missing()},
		})
		_, err := s.Transform(bad)
		require.ErrorIs(t, err, appErrors.ErrInvalidDate)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := s.Transform(newDataset(t, []string{"x"}, map[string][]dataset.Value{"x": {num(1)}}))
		require.ErrorIs(t, err, appErrors.ErrMissingColumn)
		assert.Contains(t, err.Error(), `"dteday", "weekday"`)
	})
}

func TestWeathersitImputer(t *testing.T) {
	ds := newDataset(t, []string{"weathersit"}, map[string][]dataset.Value{
		"weathersit": {str("Clear"), str("Mist"), str("Clear"), missing()},
	})

	s, err := NewWeathersitImputer("weathersit")
	require.NoError(t, err)

	_, err = s.Transform(ds)
	require.ErrorIs(t, err, appErrors.ErrNotFitted)

	require.NoError(t, s.Fit(ds))
	assert.Equal(t, "Clear", s.FillValue)

	out, err := s.Transform(ds)
	require.NoError(t, err)
	assert.Equal(t, str("Clear"), out.Value(3, "weathersit"))
	assert.Equal(t, str("Mist"), out.Value(1, "weathersit"))

	t.Run("numbers render as strings", func(t *testing.T) {
		numeric := newDataset(t, []string{"weathersit"}, map[string][]dataset.Value{
			"weathersit": {num(1), num(2), missing()},
		})
		fitted := &WeathersitImputer{Variable: "weathersit", FillValue: "Clear", Fitted: true}
		got, err := fitted.Transform(numeric)
		require.NoError(t, err)
		assert.Equal(t, str("1"), got.Value(0, "weathersit"))
		assert.Equal(t, str("Clear"), got.Value(2, "weathersit"))
	})

	t.Run("all missing", func(t *testing.T) {
		empty := newDataset(t, []string{"weathersit"}, map[string][]dataset.Value{
			"weathersit": {missing(), missing()},
		})
		fresh, _ := NewWeathersitImputer("weathersit")
		require.ErrorIs(t, fresh.Fit(empty), appErrors.ErrInsufficientData)
	})
}

func TestModeTieBreak(t *testing.T) {
	mode, ok := Mode([]dataset.Value{str("Mist"), str("Clear"), str("Mist"), str("Clear"), missing()})
	require.True(t, ok)
	assert.Equal(t, "Clear", mode)

	_, ok = Mode(nil)
	assert.False(t, ok)
}

func TestMapper(t *testing.T) {
	s, err := NewMapper("season", map[string]int{"spring": 0, "winter": 1, "summer": 2, "fall": 3})
	require.NoError(t, err)
	require.NoError(t, s.Fit(nil))

	ds := newDataset(t, []string{"season"}, map[string][]dataset.Value{
		"season": strs("fall", "spring"),
	})
	out, err := s.Transform(ds)
	require.NoError(t, err)
	assert.Equal(t, num(3), out.Value(0, "season"))
	assert.Equal(t, num(0), out.Value(1, "season"))

	t.Run("unmapped value", func(t *testing.T) {
		_, err := s.Transform(newDataset(t, []string{"season"}, map[string][]dataset.Value{
			"season": strs("fall", "monsoon"),
		}))
		require.ErrorIs(t, err, appErrors.ErrUnmappedCategory)
		assert.Contains(t, err.Error(), `"season"`)
		assert.Contains(t, err.Error(), `"monsoon"`)
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := s.Transform(newDataset(t, []string{"season"}, map[string][]dataset.Value{
			"season": {missing()},
		}))
		require.ErrorIs(t, err, appErrors.ErrUnmappedCategory)
	})

	t.Run("numeric value uses canonical rendering", func(t *testing.T) {
		yr, err := NewMapper("yr", map[string]int{"2011": 0, "2012": 1})
		require.NoError(t, err)
		out, err := yr.Transform(newDataset(t, []string{"yr"}, map[string][]dataset.Value{
			"yr": {num(2012), str("2011")},
		}))
		require.NoError(t, err)
		assert.Equal(t, num(1), out.Value(0, "yr"))
		assert.Equal(t, num(0), out.Value(1, "yr"))
	})

	t.Run("table is copied", func(t *testing.T) {
		table := map[string]int{"a": 1}
		m, err := NewMapper("x", table)
		require.NoError(t, err)
		table["a"] = 99
		assert.Equal(t, 1, m.Mappings["a"])
	})
}

func TestQuantile(t *testing.T) {
	x := []float64{1, 2, 3, 4, 100}
	assert.InDelta(t, 2.0, Quantile(0.25, x), 1e-12)
	assert.InDelta(t, 4.0, Quantile(0.75, x), 1e-12)

	// (n-1)*p = 0.75 falls between the first two ranks
	y := []float64{10, 20, 30, 40}
	assert.InDelta(t, 17.5, Quantile(0.25, y), 1e-12)
	assert.InDelta(t, 32.5, Quantile(0.75, y), 1e-12)

	assert.InDelta(t, 7.0, Quantile(0.25, []float64{7}), 0)
	assert.InDelta(t, 40.0, Quantile(1, y), 0)
}

func TestOutlierHandler(t *testing.T) {
	ds := newDataset(t, []string{"temp"}, map[string][]dataset.Value{
		"temp": {num(1), num(2), num(3), num(4), num(100), missing(), num(-50)},
	})

	s, err := NewOutlierHandler("temp")
	require.NoError(t, err)

	_, err = s.Transform(ds)
	require.ErrorIs(t, err, appErrors.ErrNotFitted)

	require.NoError(t, s.Fit(ds))
	// sorted: -50 1 2 3 4 100, q1 = 1.25, q3 = 3.75, iqr = 2.5
	assert.InDelta(t, -2.5, s.Bounds["temp"].Lower, 1e-12)
	assert.InDelta(t, 7.5, s.Bounds["temp"].Upper, 1e-12)

	out, err := s.Transform(ds)
	require.NoError(t, err)
	assert.Equal(t, num(7.5), out.Value(4, "temp"))
	assert.Equal(t, num(-2.5), out.Value(6, "temp"))
	assert.Equal(t, num(3), out.Value(2, "temp"))
	assert.True(t, out.Value(5, "temp").IsMissing())

	again, err := s.Transform(out)
	require.NoError(t, err)
	assert.Equal(t, out.Records(), again.Records(), "clipping is idempotent")

	t.Run("non numeric", func(t *testing.T) {
		bad := newDataset(t, []string{"temp"}, map[string][]dataset.Value{"temp": {num(1), str("warm")}})
		fresh, _ := NewOutlierHandler("temp")
		require.ErrorIs(t, fresh.Fit(bad), appErrors.ErrNonNumericValue)
		_, err := s.Transform(bad)
		require.ErrorIs(t, err, appErrors.ErrNonNumericValue)
	})

	t.Run("all missing", func(t *testing.T) {
		empty := newDataset(t, []string{"temp"}, map[string][]dataset.Value{"temp": {missing()}})
		fresh, _ := NewOutlierHandler("temp")
		require.ErrorIs(t, fresh.Fit(empty), appErrors.ErrInsufficientData)
	})
}

func TestWeekdayOneHotEncoder(t *testing.T) {
	train := newDataset(t, []string{"weekday"}, map[string][]dataset.Value{
		"weekday": strs("Tue", "Mon", "Sun", "Mon"),
	})

	s, err := NewWeekdayOneHotEncoder("weekday", "")
	require.NoError(t, err)
	assert.Equal(t, HandleUnknownIgnore, s.HandleUnknown)

	_, err = s.Transform(train)
	require.ErrorIs(t, err, appErrors.ErrNotFitted)

	require.NoError(t, s.Fit(train))
	assert.Equal(t, []string{"Mon", "Sun", "Tue"}, s.Categories)
	assert.Equal(t, []string{"weekday_Mon", "weekday_Sun", "weekday_Tue"}, s.FeatureNames())

	serve := newDataset(t, []string{"weekday"}, map[string][]dataset.Value{
		"weekday": {str("Sun"), str("Wed"), missing()},
	})
	out, err := s.Transform(serve)
	require.NoError(t, err)
	assert.Equal(t, []string{"weekday", "weekday_Mon", "weekday_Sun", "weekday_Tue"}, out.Columns())

	row := func(i int) []float64 {
		var vals []float64
		for _, name := range s.FeatureNames() {
			f, _ := out.Value(i, name).Float()
			vals = append(vals, f)
		}
		return vals
	}
	assert.Equal(t, []float64{0, 1, 0}, row(0))
	assert.Equal(t, []float64{0, 0, 0}, row(1), "unseen category encodes as zeros")
	assert.Equal(t, []float64{0, 0, 0}, row(2), "missing encodes as zeros")

	again, err := s.Transform(out)
	require.NoError(t, err)
	assert.Equal(t, out.Columns(), again.Columns(), "indicator columns are replaced, not duplicated")

	t.Run("strict policy", func(t *testing.T) {
		strict := &WeekdayOneHotEncoder{Variable: "weekday", HandleUnknown: HandleUnknownError, Categories: s.Categories}
		_, err := strict.Transform(serve)
		require.ErrorIs(t, err, appErrors.ErrUnknownCategory)
	})

	t.Run("no categories", func(t *testing.T) {
		fresh, _ := NewWeekdayOneHotEncoder("weekday", HandleUnknownError)
		empty := newDataset(t, []string{"weekday"}, map[string][]dataset.Value{"weekday": {missing()}})
		require.ErrorIs(t, fresh.Fit(empty), appErrors.ErrInsufficientData)
	})
}

func TestDropColumns(t *testing.T) {
	ds := newDataset(t, []string{"dteday", "casual", "temp"}, map[string][]dataset.Value{
		"dteday": strs("2012-01-01"),
		"casual": {num(3)},
		"temp":   {num(0.2)},
	})

	s, err := NewDropColumns("dteday", "casual")
	require.NoError(t, err)
	out, err := s.Transform(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"temp"}, out.Columns())
	assert.Equal(t, []string{"dteday", "casual", "temp"}, ds.Columns())

	missingCols, err := NewDropColumns("casual", "registered", "weekday")
	require.NoError(t, err)
	_, err = missingCols.Transform(ds)
	require.ErrorIs(t, err, appErrors.ErrMissingColumn)
	assert.Contains(t, err.Error(), `"registered", "weekday"`)
}

func TestRegistryRoundTrip(t *testing.T) {
	enc, err := NewWeekdayOneHotEncoder("weekday", HandleUnknownError)
	require.NoError(t, err)
	enc.Categories = []string{"Mon", "Tue"}

	outlier, err := NewOutlierHandler("temp")
	require.NoError(t, err)
	outlier.Bounds = map[string]Bounds{"temp": {Lower: -1, Upper: 2}}

	mapper, err := NewMapper("hr", map[string]int{"4am": 0})
	require.NoError(t, err)

	for _, stage := range []Stage{enc, outlier, mapper} {
		params, err := Encode(stage)
		require.NoError(t, err)

		decoded, err := Decode(stage.Name(), params)
		require.NoError(t, err)
		assert.Equal(t, stage, decoded)
	}

	_, err = Decode("pca", []byte(`{}`))
	require.ErrorIs(t, err, appErrors.ErrConfiguration)

	_, err = Decode(KindMapper, []byte(`{"variable":"hr","mappings":{}}`))
	require.ErrorIs(t, err, appErrors.ErrConfiguration)

	assert.Len(t, Kinds(), 6)
}
