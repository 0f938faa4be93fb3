package learn

import (
	"gonum.org/v1/gonum/mat"
)

// MajorityVote computes training marginals by unweighted vote over a label
// matrix. A row whose label sum is positive gets probability 1.0; ties,
// negative sums and all-abstain rows get 0.0.
func MajorityVote(L mat.Matrix) []float64 {
	n, m := L.Dims()
	marginals := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < m; j++ {
			sum += L.At(i, j)
		}
		if sum > 0 {
			marginals[i] = 1.0
		}
	}
	return marginals
}
