package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/mrz1836/go-bikerental/internal/estimator"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/features"
	"github.com/mrz1836/go-bikerental/internal/jsonutil"
	"github.com/mrz1836/go-bikerental/internal/logging"
)

// FormatVersion is the artifact document layout version
const FormatVersion = 1

// artifactExt is the file extension of persisted artifacts
const artifactExt = ".json"

// Artifact is the persisted form of a fitted pipeline
type Artifact struct {
	FormatVersion int                `json:"format_version"`
	Version       string             `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	OutputColumns []string           `json:"output_columns"`
	FillValues    map[string]float64 `json:"fill_values,omitempty"`
	Steps         []ComponentRecord  `json:"steps"`
	Estimator     ComponentRecord    `json:"estimator"`
	Metrics       *estimator.Scores  `json:"metrics,omitempty"`
}

// ComponentRecord is one serialized stage or estimator
type ComponentRecord struct {
	Name   string              `json:"name,omitempty"`
	Kind   string              `json:"kind"`
	Params jsonutil.RawMessage `json:"params"`
}

// ToArtifact captures the fitted pipeline
func (p *Pipeline) ToArtifact() (*Artifact, error) {
	if !p.fitted {
		return nil, appErrors.NotFittedError("pipeline", "save")
	}

	a := &Artifact{
		FormatVersion: FormatVersion,
		Version:       p.version,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		OutputColumns: p.OutputColumns(),
		FillValues:    p.FillValues(),
		Metrics:       p.scores,
	}
	for _, step := range p.steps {
		params, err := features.Encode(step.Stage)
		if err != nil {
			return nil, err
		}
		a.Steps = append(a.Steps, ComponentRecord{Name: step.Name, Kind: step.Stage.Name(), Params: params})
	}

	params, err := estimator.Encode(p.regressor)
	if err != nil {
		return nil, err
	}
	a.Estimator = ComponentRecord{Kind: p.regressor.Name(), Params: params}
	return a, nil
}

// FromArtifact rebuilds a fitted pipeline
func FromArtifact(a *Artifact, opts ...Option) (*Pipeline, error) {
	if a.FormatVersion != FormatVersion {
		return nil, appErrors.ConfigurationError("artifact", fmt.Sprintf("unsupported format_version %d", a.FormatVersion))
	}
	if len(a.OutputColumns) == 0 {
		return nil, appErrors.ConfigurationError("artifact", "output_columns cannot be empty")
	}

	steps := make([]Step, 0, len(a.Steps))
	for _, rec := range a.Steps {
		stage, err := features.Decode(rec.Kind, rec.Params)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", rec.Name, err)
		}
		steps = append(steps, Step{Name: rec.Name, Stage: stage})
	}

	regressor, err := estimator.Decode(a.Estimator.Kind, a.Estimator.Params)
	if err != nil {
		return nil, err
	}

	opts = append([]Option{WithVersion(a.Version)}, opts...)
	p, err := New(regressor, steps, opts...)
	if err != nil {
		return nil, err
	}
	p.outputColumns = append([]string(nil), a.OutputColumns...)
	p.fillValues = a.FillValues
	p.scores = a.Metrics
	p.fitted = true
	return p, nil
}

// ArtifactPath returns <dir>/<baseName><version>.json
func ArtifactPath(dir, baseName, version string) string {
	return filepath.Join(dir, baseName+version+artifactExt)
}

// Save writes the fitted pipeline to dir and returns the file path. The
// document is written to a temporary file first and renamed into place.
func Save(p *Pipeline, dir, baseName string) (string, error) {
	if _, err := semver.StrictNewVersion(p.version); err != nil {
		return "", appErrors.ConfigurationError("artifact", fmt.Sprintf("version %q is not a semantic version", p.version))
	}

	a, err := p.ToArtifact()
	if err != nil {
		return "", err
	}
	data, err := jsonutil.MarshalJSON(a)
	if err != nil {
		return "", appErrors.JSONMarshalError("artifact", err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", appErrors.DirectoryOperationError("create", dir, err)
	}

	path := ArtifactPath(dir, baseName, p.version)
	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return "", appErrors.FileCreateError(path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", appErrors.FileWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", appErrors.FileWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", appErrors.FileWriteError(path, err)
	}

	logging.NewAuditLogger(p.logger).LogArtifact(path, p.version, "saved")
	return path, nil
}

// ReadArtifact decodes an artifact document without rebuilding the pipeline
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Path is the configured artifact file
	if err != nil {
		return nil, appErrors.FileReadError(path, err)
	}
	a, err := jsonutil.UnmarshalJSON[Artifact](data)
	if err != nil {
		return nil, appErrors.JSONUnmarshalError(path, err)
	}
	return &a, nil
}

// Load reads the artifact at path and rebuilds the pipeline. The artifact
// major version must equal the major version of running.
func Load(path, running string, opts ...Option) (*Pipeline, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	if err := CheckCompatible(a.Version, running); err != nil {
		return nil, err
	}
	p, err := FromArtifact(a, opts...)
	if err != nil {
		return nil, err
	}
	logging.NewAuditLogger(p.logger).LogArtifact(path, p.version, "loaded")
	return p, nil
}

// CheckCompatible reports ErrIncompatibleVersion unless both versions parse
// and share a major version
func CheckCompatible(artifact, running string) error {
	av, err := semver.NewVersion(artifact)
	if err != nil {
		return fmt.Errorf("%w: %w", appErrors.IncompatibleVersionError(artifact, running), err)
	}
	rv, err := semver.NewVersion(running)
	if err != nil {
		return fmt.Errorf("%w: %w", appErrors.IncompatibleVersionError(artifact, running), err)
	}
	if av.Major() != rv.Major() {
		return appErrors.IncompatibleVersionError(artifact, running)
	}
	return nil
}

// ListArtifacts returns the versions of baseName artifacts in dir, newest first
func ListArtifacts(dir, baseName string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, appErrors.DirectoryOperationError("read", dir, err)
	}

	var versions []*semver.Version
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, baseName) || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, baseName), artifactExt)
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(sort.Reverse(semver.Collection(versions)))

	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.Original()
	}
	return out, nil
}

// PruneArtifacts removes every baseName artifact in dir except the keep versions
func PruneArtifacts(dir, baseName string, keep ...string) ([]string, error) {
	versions, err := ListArtifacts(dir, baseName)
	if err != nil {
		return nil, err
	}
	keepSet := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		keepSet[k] = struct{}{}
	}

	var removed []string
	for _, v := range versions {
		if _, ok := keepSet[v]; ok {
			continue
		}
		path := ArtifactPath(dir, baseName, v)
		if err := os.Remove(path); err != nil {
			return removed, appErrors.FileOperationError("remove", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
