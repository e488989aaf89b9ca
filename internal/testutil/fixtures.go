// Package testutil provides shared fixtures for tests: synthetic rental
// records, training files and a small model configuration.
package testutil

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/dataset"
)

//nolint:gochecknoglobals // fixture tables
var (
	hours = []string{
		"12am", "1am", "2am", "3am", "4am", "5am", "6am", "7am", "8am", "9am", "10am", "11am",
		"12pm", "1pm", "2pm", "3pm", "4pm", "5pm", "6pm", "7pm", "8pm", "9pm", "10pm", "11pm",
	}
	weathers = []string{"Clear", "Mist", "Clear", "Light Rain", "Clear", "Mist", "Heavy Rain"}
	seasons  = map[time.Month]string{
		time.December: "winter", time.January: "winter", time.February: "winter",
		time.March: "spring", time.April: "spring", time.May: "spring",
		time.June: "summer", time.July: "summer", time.August: "summer",
		time.September: "fall", time.October: "fall", time.November: "fall",
	}
)

// TargetColumn is the label column written by the fixtures
const TargetColumn = "cnt"

// Record returns synthetic row i. Every seventh row has no weekday and every
// eleventh row has no weathersit, so the imputers have work to do.
func Record(i int) map[string]any {
	day := time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, (i*3)%730)
	hr := i % len(hours)
	temp := 0.1 + 0.8*frac(float64(i)*0.371)
	hum := 0.2 + 0.7*frac(float64(i)*0.613)
	wind := 0.4 * frac(float64(i)*0.457)

	weekday := day.Weekday().String()[:3]
	workingday := "Yes"
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		workingday = "No"
	}
	holiday := "No"
	if i%31 == 0 {
		holiday = "Yes"
	}

	rec := map[string]any{
		"dteday":     day.Format("2006-01-02"),
		"season":     seasons[day.Month()],
		"hr":         hours[hr],
		"holiday":    holiday,
		"weekday":    weekday,
		"workingday": workingday,
		"weathersit": weathers[i%len(weathers)],
		"temp":       round(temp),
		"atemp":      round(temp * 0.92),
		"hum":        round(hum),
		"windspeed":  round(wind),
		"casual":     float64(5 + (i*7)%60),
		"registered": float64(20 + (i*13)%180),
		"yr":         day.Format("2006"),
		"mnth":       day.Month().String(),
	}
	if i%7 == 3 {
		rec["weekday"] = nil
	}
	if i%11 == 5 {
		rec["weathersit"] = nil
	}
	if i == 17 {
		// one extreme reading for the outlier handler
		rec["windspeed"] = 4.5
	}

	peak := 0.0
	if hr == 8 || hr == 17 || hr == 18 {
		peak = 250
	}
	rec[TargetColumn] = math.Round(40 + 300*temp - 80*hum + peak + float64(hr)*3)
	return rec
}

// Records returns n synthetic rows
func Records(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = Record(i)
	}
	return out
}

// TrainingData splits n synthetic rows into the configured feature frame and
// the target vector
func TrainingData(t testing.TB, cfg *config.Config, n int) (*dataset.Dataset, []float64) {
	t.Helper()

	records := Records(n)
	X := dataset.FromRecords(records, cfg.Model.Features)
	y, err := dataset.FromRecords(records, []string{TargetColumn}).Float64s(TargetColumn)
	if err != nil {
		t.Fatalf("failed to build target: %v", err)
	}
	return X, y
}

// WriteTrainingCSV writes n synthetic rows as a training file and returns its path
func WriteTrainingCSV(t testing.TB, dir, name string, n int) string {
	t.Helper()

	columns := append(append([]string(nil), FeatureOrder()...), TargetColumn)
	path := filepath.Join(dir, name)
	f, err := os.Create(path) //#nosec G304 -- test fixture path
	if err != nil {
		t.Fatalf("failed to create training file %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, rec := range Records(n) {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = dataset.FromAny(rec[col]).String()
		}
		if err := w.Write(row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to flush training file: %v", err)
	}
	return path
}

// FeatureOrder returns the feature columns of the default configuration
func FeatureOrder() []string {
	cfg, err := config.LoadDefault()
	if err != nil {
		panic(err)
	}
	return cfg.Model.Features
}

// Config returns the default configuration scaled down for fast tests, with
// data and artifact directories under a temporary directory
func Config(t testing.TB) *config.Config {
	t.Helper()

	cfg, err := config.LoadDefault()
	if err != nil {
		t.Fatalf("failed to load default config: %v", err)
	}
	dir := t.TempDir()
	cfg.App.DataDir = filepath.Join(dir, "datasets")
	cfg.App.ArtifactDir = filepath.Join(dir, "trained_models")
	cfg.Model.Estimator.NEstimators = 8
	cfg.Model.Estimator.MaxDepth = 6
	cfg.Model.Estimator.NJobs = 2
	return cfg
}

func frac(f float64) float64 { return f - math.Floor(f) }

func round(f float64) float64 { return math.Round(f*10000) / 10000 }
