package pipeline

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mrz1836/go-bikerental/internal/jsonutil"
)

// Diff renders a unified diff of two artifacts. Fitted estimator parameters
// are summarized by size, since tree dumps are not useful to read line by line.
func Diff(a, b *Artifact, nameA, nameB string) (string, error) {
	left, err := diffView(a)
	if err != nil {
		return "", err
	}
	right, err := diffView(b)
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  3,
	})
}

func diffView(a *Artifact) (string, error) {
	view := *a
	view.Estimator = ComponentRecord{
		Kind:   a.Estimator.Kind,
		Params: jsonutil.RawMessage(fmt.Sprintf(`{"bytes": %d}`, len(a.Estimator.Params))),
	}
	out, err := jsonutil.PrettyPrint(view)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}
