package estimator

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// RandomForestRegressor averages bootstrap-trained regression trees.
// Tree i is seeded with RandomState+i, so results do not depend on NJobs.
type RandomForestRegressor struct {
	NEstimators     int     `json:"n_estimators"`
	MaxDepth        int     `json:"max_depth"`
	MinSamplesSplit int     `json:"min_samples_split"`
	MaxFeatures     float64 `json:"max_features"` // fraction of features per split, 0 means all
	NJobs           int     `json:"n_jobs"`       // parallel trees, 0 means GOMAXPROCS
	RandomState     int64   `json:"random_state"`

	Features int               `json:"n_features,omitempty"`
	Trees    []*RegressionTree `json:"trees,omitempty"`
}

// NewRandomForestRegressor returns a forest with the common defaults:
// 100 trees, depth 10, seed 42
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		NEstimators:     100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		RandomState:     42,
	}
}

// Name returns the estimator kind
func (rf *RandomForestRegressor) Name() string { return KindRandomForest }

// Fit trains NEstimators trees in parallel, bounded by NJobs
func (rf *RandomForestRegressor) Fit(X mat.Matrix, y []float64) error {
	rows, cols, err := checkFitInput(KindRandomForest, X, y)
	if err != nil {
		return err
	}
	if rf.NEstimators < 1 {
		return appErrors.ConfigurationError(KindRandomForest, "n_estimators must be positive")
	}

	columns := make([][]float64, cols)
	for j := range columns {
		columns[j] = mat.Col(nil, j, X)
	}

	maxFeatures := 0
	if rf.MaxFeatures > 0 {
		maxFeatures = int(rf.MaxFeatures * float64(cols))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}
	params := treeParams{
		maxDepth:        rf.MaxDepth,
		minSamplesSplit: rf.MinSamplesSplit,
		maxFeatures:     maxFeatures,
	}

	jobs := rf.NJobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	trees := make([]*RegressionTree, rf.NEstimators)
	var g errgroup.Group
	g.SetLimit(jobs)
	for i := range trees {
		i := i
		seed :=rf.RandomState + int64(i)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible bootstrap, not security
			sample := make([]int, rows)
			for k := range sample {
				sample[k] = rng.Intn(rows)
			}
			trees[i] = buildTree(columns, y, sample, params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rf.Trees = trees
	rf.Features = cols
	return nil
}

// Predict averages the tree predictions for every row
func (rf *RandomForestRegressor) Predict(X mat.Matrix) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, appErrors.NotFittedError(KindRandomForest, "predict")
	}
	rows, err := checkPredictInput(KindRandomForest, X, rf.Features)
	if err != nil {
		return nil, err
	}

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := func(feature int) float64 { return X.At(i, feature) }
		var sum float64
		for _, tree := range rf.Trees {
			sum += tree.predictRow(row)
		}
		out[i] = sum / float64(len(rf.Trees))
	}
	return out, nil
}
