package validation

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	"github.com/mrz1836/go-bikerental/internal/logging"
)

// Options configures a Validator
type Options struct {
	Schema   Schema   // Default: DefaultSchema()
	Features []string // Column order of the cleaned dataset. Default: schema order
	DateVar  string   // Default: dteday
	YrVar    string   // Default: yr
	MnthVar  string   // Default: mnth

	Logger    logrus.FieldLogger
	LogConfig *logging.LogConfig
}

// Validator prepares and validates raw input records
type Validator struct {
	schema   Schema
	features []string
	dateVar  string
	yrVar    string
	mnthVar  string
	logger   *logrus.Entry
	debug    bool
}

// New creates a validator, filling unset options with defaults
func New(opts Options) *Validator {
	if len(opts.Schema) == 0 {
		opts.Schema = DefaultSchema()
	}
	if len(opts.Features) == 0 {
		opts.Features = opts.Schema.Names()
	}
	if opts.DateVar == "" {
		opts.DateVar = "dteday"
	}
	if opts.YrVar == "" {
		opts.YrVar = "yr"
	}
	if opts.MnthVar == "" {
		opts.MnthVar = "mnth"
	}

	return &Validator{
		schema:   opts.Schema,
		features: append([]string(nil), opts.Features...),
		dateVar:  opts.DateVar,
		yrVar:    opts.YrVar,
		mnthVar:  opts.MnthVar,
		logger:   logging.WithStandardFields(opts.Logger, opts.LogConfig, logging.ComponentNames.Validation),
		debug:    opts.LogConfig != nil && opts.LogConfig.Debug.Validation,
	}
}

// Prepare derives year and month name columns from the date column. Rows
// whose date does not parse keep any supplied year and month.
func (v *Validator) Prepare(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out := ds.Clone()
	if !ds.HasColumn(v.dateVar) {
		return out, nil
	}

	dates, _ := ds.Column(v.dateVar)
	years := make([]dataset.Value, ds.Len())
	months := make([]dataset.Value, ds.Len())
	for i, d := range dates {
		years[i] = ds.Value(i, v.yrVar)
		months[i] = ds.Value(i, v.mnthVar)
		if t, ok := dataset.ParseDateValue(d); ok {
			years[i] = dataset.Number(float64(t.Year()))
			months[i] = dataset.String(t.Month().String())
		}
	}

	if err := out.SetColumn(v.yrVar, years); err != nil {
		return nil, err
	}
	if err := out.SetColumn(v.mnthVar, months); err != nil {
		return nil, err
	}
	return out, nil
}

// prepareRecord is Prepare for a single raw record; the input is not modified
func (v *Validator) prepareRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec)+2)
	for k, val := range rec {
		out[k] = val
	}

	var day time.Time
	var ok bool
	switch d := rec[v.dateVar].(type) {
	case string:
		day, ok = dataset.ParseDate(d)
	case time.Time:
		day, ok = d, true
	}
	if ok {
		out[v.yrVar] = day.Year()
		out[v.mnthVar] = day.Month().String()
	}
	return out
}

// Validate prepares every record, coerces each schema field and returns the
// cleaned dataset in feature order together with the batch error payload.
// The dataset is always returned. Fields that failed coercion are cleared to
// missing so the rest of the record can still be predicted best-effort.
func (v *Validator) Validate(records []map[string]any) (*dataset.Dataset, ErrorPayload) {
	var payload ErrorPayload
	cleaned := make([]map[string]any, len(records))

	for i, raw := range records {
		rec := v.prepareRecord(raw)
		row := make(map[string]any, len(rec))
		for k, val := range rec {
			row[k] = val
		}
		for _, field := range v.schema {
			val, present := rec[field.Name]
			if !present {
				continue
			}
			c := coerce(val, field.Type)
			if c.errType != "" {
				payload.add(i, field.Name, c.errType, val)
				row[field.Name] = nil
				continue
			}
			row[field.Name] = c.value
		}
		cleaned[i] = row
	}

	if len(payload) > 0 {
		entry := v.logger.WithFields(logrus.Fields{
			logging.StandardFields.RecordCount: len(records),
			logging.StandardFields.ErrorCount:  len(payload),
		})
		if v.debug {
			for _, fe := range payload {
				entry.WithFields(logrus.Fields{
					"loc":  fe.Loc,
					"type": fe.Type,
				}).Debug("Field failed validation")
			}
		}
		entry.Warn("Input records failed schema validation")
	}

	return dataset.FromRecords(cleaned, v.features), payload
}
