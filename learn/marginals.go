package learn

import (
	"math"

	"github.com/weaksignal/lfkit/core/model"
	"github.com/weaksignal/lfkit/pkg/errors"
)

type marginalsState struct {
	Values []float64
}

// SaveMarginals writes per-candidate marginal probabilities to a gob file
// so a supervision run can be reused without retraining.
func SaveMarginals(path string, marginals []float64) error {
	if len(marginals) == 0 {
		return errors.NewValidationError("marginals", "nothing to save", nil)
	}
	for _, p := range marginals {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return errors.NewValidationError("marginals", "marginals must be in [0, 1]", p)
		}
	}

	if err := model.SaveModel(&marginalsState{Values: marginals}, path); err != nil {
		return errors.Wrap(err, "learn: failed to save marginals")
	}
	return nil
}

// LoadMarginals reads marginals previously written by SaveMarginals.
func LoadMarginals(path string) ([]float64, error) {
	var snap marginalsState
	if err := model.LoadModel(&snap, path); err != nil {
		return nil, errors.Wrap(err, "learn: failed to load marginals")
	}

	if len(snap.Values) == 0 {
		return nil, errors.NewValidationError("path", "marginals file is empty", path)
	}
	for _, p := range snap.Values {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, errors.NewValidationError("path", "corrupt marginals file", path)
		}
	}
	return snap.Values, nil
}
