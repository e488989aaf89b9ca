package pipeline

import (
	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/estimator"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/features"
)

// Standard step names, in chain order
const (
	StepWeekdayImputer    = "weekday_imputer"
	StepWeathersitImputer = "weathersit_imputer"
	StepMapYr             = "map_yr"
	StepMapMnth           = "map_mnth"
	StepMapSeason         = "map_season"
	StepMapWeathersit     = "map_weathersit"
	StepMapHoliday        = "map_holiday"
	StepMapWorkingday     = "map_workingday"
	StepMapHr             = "map_hr"
	StepOutlierHandler    = "outlier_handler"
	StepWeekdayEncoder    = "weekday_encoder"
	StepDropColumns       = "drop_columns"
)

// BuildSteps assembles the standard twelve-step feature chain from the model
// configuration
func BuildSteps(m *config.ModelConfig) ([]Step, error) {
	weekday, err := features.NewWeekdayImputer(m.DateVar, m.WeekdayVar)
	if err != nil {
		return nil, err
	}
	weathersit, err := features.NewWeathersitImputer(m.WeathersitVar)
	if err != nil {
		return nil, err
	}

	steps := []Step{
		{Name: StepWeekdayImputer, Stage: weekday},
		{Name: StepWeathersitImputer, Stage: weathersit},
	}

	mappers := []struct {
		step     string
		variable string
		table    map[string]int
	}{
		{StepMapYr, m.YrVar, m.YrMappings},
		{StepMapMnth, m.MnthVar, m.MnthMappings},
		{StepMapSeason, m.SeasonVar, m.SeasonMappings},
		{StepMapWeathersit, m.WeathersitVar, m.WeathersitMappings},
		{StepMapHoliday, m.HolidayVar, m.HolidayMappings},
		{StepMapWorkingday, m.WorkingdayVar, m.WorkingdayMappings},
		{StepMapHr, m.HrVar, m.HrMappings},
	}
	for _, mp := range mappers {
		mapper, err := features.NewMapper(mp.variable, mp.table)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Name: mp.step, Stage: mapper})
	}

	outliers, err := features.NewOutlierHandler(m.NumericalFeatures...)
	if err != nil {
		return nil, err
	}
	encoder, err := features.NewWeekdayOneHotEncoder(m.WeekdayVar, m.HandleUnknown)
	if err != nil {
		return nil, err
	}
	drop, err := features.NewDropColumns(m.UnusedFields...)
	if err != nil {
		return nil, err
	}

	return append(steps,
		Step{Name: StepOutlierHandler, Stage: outliers},
		Step{Name: StepWeekdayEncoder, Stage: encoder},
		Step{Name: StepDropColumns, Stage: drop},
	), nil
}

// NewRegressor creates the configured, unfitted estimator
func NewRegressor(m *config.ModelConfig) (estimator.Regressor, error) {
	e := m.Estimator
	switch e.Kind {
	case estimator.KindRandomForest:
		rf := estimator.NewRandomForestRegressor()
		rf.NEstimators = e.NEstimators
		rf.MaxDepth = e.MaxDepth
		rf.MinSamplesSplit = e.MinSamplesSplit
		rf.MaxFeatures = e.MaxFeatures
		rf.NJobs = e.NJobs
		rf.RandomState = m.RandomState
		return rf, nil
	case estimator.KindLinear:
		return estimator.NewLinearRegression(e.Alpha), nil
	default:
		return nil, appErrors.ConfigurationError("estimator", "unknown kind "+e.Kind)
	}
}

// Build creates the standard unfitted pipeline for cfg
func Build(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	steps, err := BuildSteps(&cfg.Model)
	if err != nil {
		return nil, err
	}
	regressor, err := NewRegressor(&cfg.Model)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithVersion(cfg.App.Version)}, opts...)
	return New(regressor, steps, opts...)
}
