package learn

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/weaksignal/lfkit/pkg/errors"
)

// DepType classifies a statistical dependency between two labeling
// functions.
type DepType int

const (
	// DepSimilar marks labeling functions that tend to vote the same way.
	DepSimilar DepType = iota
	// DepFixing marks a labeling function that corrects another one.
	DepFixing
	// DepReinforcing marks a labeling function that amplifies another one.
	DepReinforcing
	// DepExclusive marks labeling functions that tend to vote in opposite
	// directions.
	DepExclusive
)

func (t DepType) String() string {
	switch t {
	case DepSimilar:
		return "DEP_SIMILAR"
	case DepFixing:
		return "DEP_FIXING"
	case DepReinforcing:
		return "DEP_REINFORCING"
	case DepExclusive:
		return "DEP_EXCLUSIVE"
	default:
		return "DEP_UNKNOWN"
	}
}

// Dependency records a pairwise dependency between the labeling functions
// at columns I and J of a label matrix, with I < J.
type Dependency struct {
	I    int
	J    int
	Type DepType
}

// DependencySelector detects pairwise dependencies between labeling
// functions from their votes. Two functions are considered dependent when
// the Pearson correlation of their votes, over the rows where both fire,
// reaches the threshold in absolute value. Positive correlation yields
// DepSimilar, negative DepExclusive.
type DependencySelector struct {
	threshold float64
}

// NewDependencySelector builds a selector with the given correlation
// threshold.
func NewDependencySelector(threshold float64) *DependencySelector {
	return &DependencySelector{threshold: threshold}
}

// Select scans all column pairs of the label matrix and returns the
// detected dependencies. Pairs with fewer than two jointly firing rows, or
// with zero vote variance on those rows, are never selected.
func (s *DependencySelector) Select(L mat.Matrix) ([]Dependency, error) {
	if math.IsNaN(s.threshold) || s.threshold <= 0 || s.threshold > 1 {
		return nil, errors.NewValidationError("threshold", "correlation threshold must be in (0, 1]", s.threshold)
	}

	n, m := L.Dims()
	if n == 0 || m == 0 {
		return nil, errors.NewValidationError("L", "label matrix is empty", nil)
	}

	var deps []Dependency
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < m-1; i++ {
		for j := i + 1; j < m; j++ {
			xs, ys = xs[:0], ys[:0]
			for r := 0; r < n; r++ {
				a, b := L.At(r, i), L.At(r, j)
				if a != 0 && b != 0 {
					xs = append(xs, a)
					ys = append(ys, b)
				}
			}
			if len(xs) < 2 {
				continue
			}

			corr := stat.Correlation(xs, ys, nil)
			if math.IsNaN(corr) || math.Abs(corr) < s.threshold {
				continue
			}

			typ := DepSimilar
			if corr < 0 {
				typ = DepExclusive
			}
			deps = append(deps, Dependency{I: i, J: j, Type: typ})
		}
	}
	return deps, nil
}
